// Package batch provides settle-all execution and result aggregation for
// per-attachment download pipelines. All items of a batch run concurrently;
// every item settles (success or failure) before the aggregate is reported,
// and no item's failure short-circuits the rest.
package batch
