package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"serve"}, "serve"},
		{[]string{"login"}, "login"},
		{[]string{"spaces", "rm"}, "rm"},
		{[]string{"docs", "upload"}, "upload"},
		{[]string{"chat", "history"}, "history"},
		{[]string{"chat", "space-1"}, "chat"},
		{[]string{"config", "set"}, "set"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c, _, err := rootCmd.Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "rag-engine version dev\n", out.String())
}

func TestConfigFlag(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, f)
	assert.Equal(t, "", f.DefValue)
}
