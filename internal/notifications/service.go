// Package notifications composes and delivers the marketplace lifecycle
// emails. Delivery is best effort: a failed send is logged and dropped so the
// state transition that triggered it is never rolled back.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/softsellhq/softsell-backend/pkg/config"
	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/logger"
	"github.com/softsellhq/softsell-backend/pkg/mailer"
)

// Service sends lifecycle emails for license and payment-proof events.
type Service struct {
	mail mailer.Sender
	logg *logger.Logger
	cfg  config.MarketplaceConfig
}

// NewService constructs a notification service.
func NewService(mail mailer.Sender, logg *logger.Logger, cfg config.MarketplaceConfig) (*Service, error) {
	if mail == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{mail: mail, logg: logg, cfg: cfg}, nil
}

// LicenseSubmitted acknowledges a seller's new listing.
func (s *Service) LicenseSubmitted(ctx context.Context, license *models.License, seller *models.User) {
	s.send(ctx, license, mailer.Message{
		ToName:  seller.Name,
		ToEmail: seller.Email,
		Subject: "License Submission Received - SoftSell",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Thank you for submitting your license titled "<strong>%s</strong>".</p>
<p>Please wait while our admin verifies your license. We will notify you once the verification is complete.</p>
<p>Regards,<br/>SoftSell Team</p>`, seller.Name, license.Title),
	})
}

// LicenseApproved tells the seller their listing went live, reminds them to
// log the admin account out, and explains when the payout lands.
func (s *Service) LicenseApproved(ctx context.Context, license *models.License, seller *models.User) {
	price := ""
	if license.Price != nil {
		price = license.Price.StringFixed(2)
	}
	s.send(ctx, license, mailer.Message{
		ToName:  seller.Name,
		ToEmail: seller.Email,
		Subject: "Your License is Approved - SoftSell",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Your license titled <strong>"%s"</strong> has been <span style="color: green; font-weight: bold;">verified and approved</span> with a price of &#8377;%s.</p>
<p><strong>Note:</strong> Our admin has logged into your license for verification purposes. You have full control over who is logged into your license.</p>
<p>Please <span style="color: red;"><strong>log out the admin account</strong></span> from your license device immediately to secure access.</p>
<p>Once a buyer purchases your license, we will notify you and securely share your credentials with them.</p>
<p><strong>Payment:</strong> You will receive your payment after the license expiry date.</p>
<p>Regards,<br/>The <strong>SoftSell</strong> Team</p>`, seller.Name, license.Title, price),
	})
}

// LicensePurchased notifies both parties of a direct purchase. Credentials are
// never put on the wire here; buyers read them from their purchases page.
func (s *Service) LicensePurchased(ctx context.Context, license *models.License, seller, buyer *models.User) {
	s.send(ctx, license, mailer.Message{
		ToName:  seller.Name,
		ToEmail: seller.Email,
		Subject: "Your License Has Been Purchased - SoftSell",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Good news! Your license titled <strong>"%s"</strong> has been purchased.</p>
<p>The buyer has received the credentials.</p>
<p>We will notify you once the license expires.</p>
<p>Regards,<br/><strong>SoftSell Team</strong></p>`, seller.Name, license.Title),
	})

	s.send(ctx, license, mailer.Message{
		ToName:  buyer.Name,
		ToEmail: buyer.Email,
		Subject: "License Purchase Confirmation - SoftSell",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Thank you for purchasing the license titled <strong>"%s"</strong>.</p>
<p>Your license will expire on <strong>%s</strong>.</p>
<p>Regards,<br/><strong>SoftSell Team</strong></p>`, buyer.Name, license.Title, formatExpiry(license.ExpiryDate)),
	})
}

// ProofApproved delivers the credentials to the winning buyer and tells the
// seller their license sold.
func (s *Service) ProofApproved(ctx context.Context, license *models.License, seller, buyer *models.User) {
	s.send(ctx, license, mailer.Message{
		ToName:  buyer.Name,
		ToEmail: buyer.Email,
		Subject: "License Purchase Approved",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Your purchase for <strong>%s</strong> is approved.</p>
<p>Here are your credentials:</p>
<ul>
<li><strong>Username:</strong> %s</li>
<li><strong>Password:</strong> %s</li>
<li><strong>Expires on:</strong> %s</li>
</ul>
<p>Regards,<br/>SoftSell Team</p>`,
			buyer.Name, license.Title,
			license.CredentialUsername, license.CredentialPassword,
			formatExpiry(license.ExpiryDate)),
	})

	s.send(ctx, license, mailer.Message{
		ToName:  seller.Name,
		ToEmail: seller.Email,
		Subject: "Your License Has Been Sold",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>Your license titled <strong>%s</strong> has been sold.</p>
<p>We'll notify you again after it expires for payment.</p>
<p>Regards,<br/>SoftSell Team</p>`, seller.Name, license.Title),
	})
}

// ProofRejected lets the buyer know their payment evidence did not pass review.
func (s *Service) ProofRejected(ctx context.Context, license *models.License, buyer *models.User) {
	s.send(ctx, license, mailer.Message{
		ToName:  buyer.Name,
		ToEmail: buyer.Email,
		Subject: "Payment Proof Rejected - SoftSell",
		HTML: fmt.Sprintf(`<p>Hello <strong>%s</strong>,</p>
<p>We could not verify your payment for <strong>"%s"</strong> and the proof has been rejected.</p>
<p>If you believe this is a mistake, please submit a new proof with a clear screenshot and the correct transaction id.</p>
<p>Regards,<br/>SoftSell Team</p>`, buyer.Name, license.Title),
	})
}

// PaymentCompleted closes the loop after the admin settles the seller payout.
func (s *Service) PaymentCompleted(ctx context.Context, license *models.License, seller, buyer *models.User) {
	s.send(ctx, license, mailer.Message{
		ToName:  seller.Name,
		ToEmail: seller.Email,
		Subject: "Payment Completed - SoftSell",
		HTML: fmt.Sprintf(`<h2>Payment Received</h2>
<p>Hello <strong>%s</strong>,</p>
<p>Your license titled <strong>"%s"</strong> has been <span style="color:green;"><strong>marked as paid</strong></span> by the admin.</p>
<p>You will receive your payment shortly.</p>
<p>Thank you for using <strong>SoftSell</strong>!</p>`, seller.Name, license.Title),
	})

	feedbackURL := fmt.Sprintf("%s/feedback?licenseId=%s", s.cfg.FeedbackBaseURL, license.ID)
	s.send(ctx, license, mailer.Message{
		ToName:  buyer.Name,
		ToEmail: buyer.Email,
		Subject: "License Delivered - Feedback Requested",
		HTML: fmt.Sprintf(`<h2>License Delivered</h2>
<p>Hi <strong>%s</strong>,</p>
<p>Your license purchase for <strong>"%s"</strong> is complete and the seller has been paid.</p>
<p>We'd love to hear your feedback to improve our platform.</p>
<p><a href="%s">Give Feedback</a></p>
<p>Thank you for choosing <strong>SoftSell</strong>!</p>`, buyer.Name, license.Title, feedbackURL),
	})
}

func (s *Service) send(ctx context.Context, license *models.License, msg mailer.Message) {
	if msg.ToEmail == "" {
		return
	}
	ctx = s.logg.WithLicenseID(ctx, license.ID.String())
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "email_subject", msg.Subject), "send notification email", err)
		return
	}
	s.logg.Info(s.logg.WithField(ctx, "email_subject", msg.Subject), "notification email sent")
}

func formatExpiry(expiry *time.Time) string {
	if expiry == nil {
		return ""
	}
	return expiry.UTC().Format("Mon Jan 2 2006")
}
