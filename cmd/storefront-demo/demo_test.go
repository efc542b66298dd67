package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shop"
)

func TestWalkFlow(t *testing.T) {
	session := shop.NewSession()
	svc := shop.NewService(catalog.Default(), session)

	receipt, err := walkFlow(context.Background(), svc, "tshirt_l")
	require.NoError(t, err)

	assert.InDelta(t, 30.99, receipt.Total, 1e-9)
	assert.Equal(t, 7, session.Mirror.Len())
	assert.Equal(t, 0, session.Cart.Len())
}

func TestWalkFlowUnknownProduct(t *testing.T) {
	svc := shop.NewService(catalog.Default(), shop.NewSession())

	_, err := walkFlow(context.Background(), svc, "hat")

	require.ErrorIs(t, err, shop.ErrProductNotFound)
}

func TestRenderFeed(t *testing.T) {
	feed := []string{`{"event_name": "purchase"}`, `{"event_name": "view_cart"}`}

	collapsed := renderFeed(feed, false)
	assert.Contains(t, collapsed, "Analytics events (2)")
	assert.NotContains(t, collapsed, "purchase")

	expanded := renderFeed(feed, true)
	assert.Contains(t, expanded, "purchase")
	assert.Contains(t, expanded, "view_cart")
}

func TestRootCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--product", "blazer_red_m", "--expand"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Purchase complete")
	assert.Contains(t, out.String(), "149.99")
	assert.Contains(t, out.String(), "view_item_list")
}
