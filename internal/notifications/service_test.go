package notifications

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/pkg/config"
	"github.com/softsellhq/softsell-backend/pkg/db/models"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	"github.com/softsellhq/softsell-backend/pkg/logger"
	"github.com/softsellhq/softsell-backend/pkg/mailer"
)

func buildNotificationService(t *testing.T) (*Service, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(sender, logg, config.MarketplaceConfig{FeedbackBaseURL: "https://softsell.in"})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sender
}

func notificationLicense() (*models.License, *models.User, *models.User) {
	price := decimal.NewFromInt(499)
	expiry := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seller := &models.User{ID: uuid.New(), Name: "Seller", Email: "seller@example.com"}
	buyer := &models.User{ID: uuid.New(), Name: "Buyer", Email: "buyer@example.com"}
	license := &models.License{
		ID:                 uuid.New(),
		Title:              "Netflix Premium",
		Price:              &price,
		CredentialUsername: "account@example.com",
		CredentialPassword: "hunter2",
		DaysToSell:         7,
		SellerID:           seller.ID,
		ExpiryDate:         &expiry,
	}
	return license, seller, buyer
}

func TestProofApprovedDeliversCredentialsToBuyer(t *testing.T) {
	svc, sender := buildNotificationService(t)
	license, seller, buyer := notificationLicense()

	svc.ProofApproved(context.Background(), license, seller, buyer)

	if len(sender.sent) != 2 {
		t.Fatalf("expected buyer and seller emails, got %d", len(sender.sent))
	}
	buyerMsg := sender.sent[0]
	if buyerMsg.ToEmail != buyer.Email {
		t.Fatalf("expected first email to buyer, got %s", buyerMsg.ToEmail)
	}
	if !strings.Contains(buyerMsg.HTML, license.CredentialUsername) ||
		!strings.Contains(buyerMsg.HTML, license.CredentialPassword) {
		t.Fatal("expected credentials in buyer delivery email")
	}
	sellerMsg := sender.sent[1]
	if sellerMsg.ToEmail != seller.Email || sellerMsg.Subject != "Your License Has Been Sold" {
		t.Fatalf("unexpected seller email %+v", sellerMsg)
	}
	if strings.Contains(sellerMsg.HTML, license.CredentialPassword) {
		t.Fatal("seller email must not carry credentials")
	}
}

func TestLicensePurchasedOmitsCredentials(t *testing.T) {
	svc, sender := buildNotificationService(t)
	license, seller, buyer := notificationLicense()

	svc.LicensePurchased(context.Background(), license, seller, buyer)

	if len(sender.sent) != 2 {
		t.Fatalf("expected two emails, got %d", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if strings.Contains(msg.HTML, license.CredentialPassword) {
			t.Fatal("purchase emails must not carry credentials")
		}
	}
}

func TestPaymentCompletedLinksFeedbackForm(t *testing.T) {
	svc, sender := buildNotificationService(t)
	license, seller, buyer := notificationLicense()

	svc.PaymentCompleted(context.Background(), license, seller, buyer)

	if len(sender.sent) != 2 {
		t.Fatalf("expected two emails, got %d", len(sender.sent))
	}
	want := "https://softsell.in/feedback?licenseId=" + license.ID.String()
	if !strings.Contains(sender.sent[1].HTML, want) {
		t.Fatalf("expected feedback link %s in buyer email", want)
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	svc, sender := buildNotificationService(t)
	sender.err = pkgerrors.New(pkgerrors.CodeDependency, "sendgrid down")
	license, seller, _ := notificationLicense()

	// must not panic or propagate
	svc.LicenseSubmitted(context.Background(), license, seller)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one attempted send, got %d", len(sender.sent))
	}
}

func TestApprovalEmailCarriesSecurityNotice(t *testing.T) {
	svc, sender := buildNotificationService(t)
	license, seller, _ := notificationLicense()

	svc.LicenseApproved(context.Background(), license, seller)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	html := sender.sent[0].HTML
	if !strings.Contains(html, "log out the admin account") {
		t.Fatal("expected admin logout security notice")
	}
	if !strings.Contains(html, "499.00") {
		t.Fatal("expected approved price in email")
	}
}

type captureSender struct {
	sent []mailer.Message
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg mailer.Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}
