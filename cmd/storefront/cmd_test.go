package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteList(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"route:list"})
	require.NoError(t, rootCmd.Execute())

	text := out.String()
	for _, want := range []string{"/api/order/webhook", "order.checkout", "/api/admin/orders/feed", "/graphql"} {
		assert.True(t, strings.Contains(text, want), want)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed", "import:products", "user:admin"} {
		assert.True(t, names[want], want)
	}
}
