package attachment_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mlazzje/dlgmail/internal/attachment"
	"github.com/mlazzje/dlgmail/internal/batch"
	"github.com/mlazzje/dlgmail/internal/download"
	"github.com/mlazzje/dlgmail/internal/gmail"
	"github.com/mlazzje/dlgmail/internal/logging"
	"github.com/mlazzje/dlgmail/internal/server"
	"github.com/mlazzje/dlgmail/internal/tools/common"
)

// RegisterAttachmentTools registers the attachment tools with the MCP server.
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Search messages tool
	searchMessagesTool := mcp.NewTool("gmail_search_messages",
		mcp.WithDescription("Search Gmail for messages, e.g. to find messages carrying attachments"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'has:attachment from:billing@example.com')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of message IDs to return (default: 10)"),
		),
	)

	s.AddTool(searchMessagesTool, common.InstrumentedToolHandler("gmail_search_messages", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMessages(ctx, request, sc)
		}))

	// List attachments tool
	listAttachmentsTool := mcp.NewTool("gmail_list_attachments",
		mcp.WithDescription("List all attachments in a Gmail message"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
	)

	s.AddTool(listAttachmentsTool, common.InstrumentedToolHandler("gmail_list_attachments", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAttachments(ctx, request, sc)
		}))

	// Download attachments tool
	downloadAttachmentsTool := mcp.NewTool("gmail_download_attachments",
		mcp.WithDescription("Download all attachments of one or more Gmail messages to the server's download directory"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
		mcp.WithString("archive",
			mcp.Description("Optional zip file name; when set, the downloaded files are bundled into this archive in the download directory"),
		),
	)

	s.AddTool(downloadAttachmentsTool, common.InstrumentedToolHandler("gmail_download_attachments", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownloadAttachments(ctx, request, sc)
		}))

	return nil
}

// clientForRequest returns the Gmail client for the request's account, or an
// error result with authorization instructions when the account has no token.
func clientForRequest(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (*gmail.Client, *mcp.CallToolResult) {
	account := common.GetAccountFromArgs(args)
	client := sc.GmailClientForAccount(account)
	if client != nil {
		return client, nil
	}

	if !gmail.HasTokenForAccount(account) {
		authURL := gmail.GetAuthURLForAccount(account)
		errorMsg := fmt.Sprintf(`Gmail OAuth token not found. To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant read access to Gmail
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, authURL)
		return nil, mcp.NewToolResultError(errorMsg)
	}

	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Gmail client: %v", err))
	}
	sc.SetGmailClientForAccount(account, client)
	return client, nil
}

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := int64(10)
	if v, ok := args["maxResults"].(float64); ok && v > 0 {
		maxResults = int64(v)
	}

	client, errResult := clientForRequest(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ids, err := client.SearchMessages(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
	}

	if len(ids) == 0 {
		return mcp.NewToolResultText("No messages found"), nil
	}

	jsonBytes, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d message(s):\n%s", len(ids), string(jsonBytes))), nil
}

func handleListAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, errResult := clientForRequest(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	attachments, err := client.ListAttachments(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
	}

	if len(attachments) == 0 {
		return mcp.NewToolResultText("No attachments found in message"), nil
	}

	type attachmentOutput struct {
		AttachmentID string `json:"attachmentId"`
		Filename     string `json:"filename"`
		MimeType     string `json:"mimeType"`
		Size         int64  `json:"size"`
		SizeHuman    string `json:"sizeHuman"`
	}

	outputs := make([]attachmentOutput, len(attachments))
	for i, att := range attachments {
		outputs[i] = attachmentOutput{
			AttachmentID: att.AttachmentID,
			Filename:     att.Filename,
			MimeType:     att.MimeType,
			Size:         att.Size,
			SizeHuman:    gmail.FormatSize(att.Size),
		}
	}

	jsonBytes, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
	}

	result := fmt.Sprintf("Found %d attachment(s):\n%s", len(attachments), string(jsonBytes))
	return mcp.NewToolResultText(result), nil
}

func handleDownloadAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := clientForRequest(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	var handles []attachment.Handle
	for _, messageID := range messageIDs {
		msgHandles, err := client.MessageHandles(ctx, messageID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to read message %s: %v", messageID, err)), nil
		}
		handles = append(handles, msgHandles...)
	}

	sink, err := gmail.NewAPISink(client, sc.DownloadDir(), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to prepare download directory: %v", err)), nil
	}

	orchestrator := &download.Orchestrator{
		Sink:     sink,
		Resolver: &attachment.Resolver{Probe: gmail.RefreshProbe()},
		Metrics:  sc.Metrics(),
		Logger:   logging.DefaultLogger(),
	}

	br, err := orchestrator.DownloadAll(ctx, handles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if archive, ok := args["archive"].(string); ok && archive != "" {
		if result := bundleResults(sink.Dir(), archive, br); result != nil {
			return result, nil
		}
	}

	return mcp.NewToolResultText(br.JSON()), nil
}

// bundleResults packs the batch's saved files into a zip archive. Returns a
// non-nil error result when bundling fails.
func bundleResults(dir, archive string, br *batch.BatchResult) *mcp.CallToolResult {
	var files []string
	for _, r := range br.Results {
		if r.Status == batch.StatusSuccess && r.Detail != "" {
			files = append(files, r.Detail)
		}
	}
	if len(files) == 0 {
		return mcp.NewToolResultError("no files downloaded, nothing to archive")
	}

	name := attachment.SanitizeFilename(archive, "attachments")
	if filepath.Ext(name) != ".zip" {
		name += ".zip"
	}

	if err := download.BundleZip(filepath.Join(dir, name), files); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to bundle archive: %v", err))
	}
	return nil
}
