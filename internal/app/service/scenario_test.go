package service

import (
	"context"
	"errors"
	"testing"

	"minimarket/internal/common"
)

// TestMarketplaceFlow walks the whole happy path plus the ownership denial:
// register, login, create a product with the token's identity, have another
// user's token bounce off it, then apply a partial update as the owner.
func TestMarketplaceFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := newFakeUserRepo()
	auth := newTestAuthService(t, userRepo)
	products := newTestProductService(newFakeProductRepo())

	// Two registered users.
	alice, err := auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := auth.Register(ctx, RegisterRequest{Username: "bob", Email: "b@x.com", Password: "Secret456"}); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	// Login and resolve the token back to alice, as the middleware would.
	aliceToken, err := auth.Login(ctx, LoginRequest{Email: "a@x.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("login alice: %v", err)
	}
	callerOf := func(token string) string {
		claims, err := auth.tokens.Verify(token)
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		user, err := auth.CurrentUser(ctx, claims.Subject)
		if err != nil {
			t.Fatalf("resolve subject: %v", err)
		}
		return user.ID
	}
	if got := callerOf(aliceToken); got != alice.ID {
		t.Fatalf("token resolves to %q, want alice %q", got, alice.ID)
	}

	bobToken, err := auth.Login(ctx, LoginRequest{Email: "b@x.com", Password: "Secret456"})
	if err != nil {
		t.Fatalf("login bob: %v", err)
	}

	// Alice creates a product through her token identity.
	widget, err := products.Create(ctx, callerOf(aliceToken), CreateProductRequest{Name: "Widget", Price: 10})
	if err != nil {
		t.Fatalf("create widget: %v", err)
	}

	// Bob's token cannot mutate it.
	_, err = products.Update(ctx, widget.ID, callerOf(bobToken), UpdateProductRequest{Price: floatPtr(1)})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("bob's update: want ErrForbidden, got %v", err)
	}

	// Alice's partial update changes the price and nothing else.
	updated, err := products.Update(ctx, widget.ID, callerOf(aliceToken), UpdateProductRequest{Price: floatPtr(20)})
	if err != nil {
		t.Fatalf("alice's update: %v", err)
	}
	if updated.Price != 20 {
		t.Fatalf("price = %v, want 20", updated.Price)
	}
	if updated.Name != "Widget" {
		t.Fatalf("name changed by partial update: %q", updated.Name)
	}
}
