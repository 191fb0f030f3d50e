package common

import "testing"

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"explicit account", map[string]interface{}{"account": "work"}, "work"},
		{"empty account", map[string]interface{}{"account": ""}, "default"},
		{"missing account", map[string]interface{}{}, "default"},
		{"non-string account", map[string]interface{}{"account": 42}, "default"},
		{"nil args", nil, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(tt.args); got != tt.want {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
