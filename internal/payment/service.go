// File: internal/payment/service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	stripeclient "github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

// CheckoutType identifies what a checkout session pays for.
type CheckoutType string

const (
	CheckoutClassifiedFeatured   CheckoutType = "classified_featured"
	CheckoutClassifiedPremium    CheckoutType = "classified_premium"
	CheckoutDirectoryEnhanced    CheckoutType = "directory_enhanced"
	CheckoutDirectoryFeatured    CheckoutType = "directory_featured"
	CheckoutSubscriptionBasic    CheckoutType = "subscription_basic"
	CheckoutSubscriptionPremium  CheckoutType = "subscription_premium"
	CheckoutSubscriptionBusiness CheckoutType = "subscription_business"
)

// placementPricesKWD maps one-time placement products to their price in
// Kuwaiti dinar. Subscriptions are priced in the Stripe dashboard instead.
var placementPricesKWD = map[CheckoutType]float64{
	CheckoutClassifiedFeatured: 2.00,
	CheckoutClassifiedPremium:  5.00,
	CheckoutDirectoryEnhanced:  10.00,
	CheckoutDirectoryFeatured:  20.00,
}

// placementLabels are the product names shown on the Stripe checkout page.
var placementLabels = map[CheckoutType]string{
	CheckoutClassifiedFeatured: "Featured Classified Placement",
	CheckoutClassifiedPremium:  "Premium Classified Placement",
	CheckoutDirectoryEnhanced:  "Enhanced Directory Placement",
	CheckoutDirectoryFeatured:  "Featured Directory Placement",
}

// kwdToFils converts a KWD amount to Stripe's minor unit. The dinar has
// three decimal places, so one dinar is 1000 fils.
func kwdToFils(amount float64) int64 {
	return int64(math.Round(amount * 1000))
}

// checkoutTypes maps the public {type, tier} pair onto a checkout product.
var checkoutTypes = map[string]map[string]CheckoutType{
	"classified": {
		"featured": CheckoutClassifiedFeatured,
		"premium":  CheckoutClassifiedPremium,
	},
	"directory": {
		"enhanced": CheckoutDirectoryEnhanced,
		"featured": CheckoutDirectoryFeatured,
	},
	"subscription": {
		"basic":    CheckoutSubscriptionBasic,
		"premium":  CheckoutSubscriptionPremium,
		"business": CheckoutSubscriptionBusiness,
	},
}

func resolveCheckoutType(paymentType, tier string) (CheckoutType, error) {
	tiers, ok := checkoutTypes[paymentType]
	if !ok {
		return "", common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown payment type %q.", paymentType))
	}
	checkout, ok := tiers[tier]
	if !ok {
		return "", common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown tier %q for payment type %q.", tier, paymentType))
	}
	return checkout, nil
}

// CreateCheckoutSessionRequest is the payload to start a payment. ItemID
// points at the listing being promoted for placement purchases.
type CreateCheckoutSessionRequest struct {
	Type   string     `json:"type" binding:"required"`
	Tier   string     `json:"tier" binding:"required"`
	ItemID *uuid.UUID `json:"itemId" binding:"omitempty"`
}

// CheckoutSessionResponse carries the hosted checkout details back to the
// frontend.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// ProfileStore is the slice of the profile repository the payment service
// needs: looking members up and remembering their Stripe customer.
type ProfileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error)
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, stripeCustomerID string) error
}

// Service creates Stripe checkout sessions.
type Service interface {
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req CreateCheckoutSessionRequest) (*CheckoutSessionResponse, error)
}

// ServiceImplementation implements the Service interface on top of an
// injected Stripe API client.
type ServiceImplementation struct {
	stripe   *stripeclient.API
	profiles ProfileStore
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new payment service.
func NewService(stripeClient *stripeclient.API, profiles ProfileStore, cfg *config.Config, logger *zap.Logger) Service {
	return &ServiceImplementation{
		stripe:   stripeClient,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
	}
}

// NewStripeClient builds the Stripe API client from config.
func NewStripeClient(cfg *config.Config) *stripeclient.API {
	return stripeclient.New(cfg.StripeSecretKey, nil)
}

// CreateCheckoutSession creates a hosted checkout session for either a
// one-time placement purchase or a recurring subscription.
func (s *ServiceImplementation) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req CreateCheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	checkout, err := resolveCheckoutType(req.Type, req.Tier)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.getOrCreateCustomer(ctx, profile)
	if err != nil {
		s.logger.Error("Failed to resolve Stripe customer", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not start the payment.")
	}

	successPath, cancelPath := redirectPaths(req.Type)
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		SuccessURL: stripe.String(s.cfg.SiteBaseURL + successPath),
		CancelURL:  stripe.String(s.cfg.SiteBaseURL + cancelPath),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("type", req.Type)
	params.AddMetadata("tier", req.Tier)
	if req.ItemID != nil {
		params.AddMetadata("listing_id", req.ItemID.String())
	}

	if priceKWD, ok := placementPricesKWD[checkout]; ok {
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("kwd"),
				UnitAmount: stripe.Int64(kwdToFils(priceKWD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(placementLabels[checkout]),
				},
			},
			Quantity: stripe.Int64(1),
		}}
	} else {
		priceID, err := s.subscriptionPriceID(checkout)
		if err != nil {
			return nil, err
		}
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}}
	}

	session, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		s.logger.Error("Stripe checkout session creation failed",
			zap.String("userID", userID.String()),
			zap.String("checkout", string(checkout)),
			zap.Error(err),
		)
		return nil, common.ErrInternalServer.WithDetails(providerErrorDetails(err))
	}

	s.logger.Info("Checkout session created",
		zap.String("userID", userID.String()),
		zap.String("checkout", string(checkout)),
		zap.String("sessionID", session.ID),
	)
	return &CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

// getOrCreateCustomer returns the profile's Stripe customer, creating and
// persisting one on first payment.
func (s *ServiceImplementation) getOrCreateCustomer(ctx context.Context, profile *user.Profile) (string, error) {
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx
	if profile.Email != nil {
		params.Email = stripe.String(*profile.Email)
	}
	if profile.DisplayName != nil {
		params.Name = stripe.String(*profile.DisplayName)
	}
	params.AddMetadata("profile_id", profile.ID.String())

	customer, err := s.stripe.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("creating Stripe customer: %w", err)
	}

	if err := s.profiles.SetStripeCustomerID(ctx, profile.ID, customer.ID); err != nil {
		// The customer exists on Stripe's side; a later payment will create
		// another one, which Stripe tolerates. Log and carry on.
		s.logger.Warn("Failed to persist Stripe customer id",
			zap.String("profileID", profile.ID.String()),
			zap.Error(err),
		)
	}
	return customer.ID, nil
}

// redirectPaths returns where the hosted checkout sends the member back,
// per payment type.
func redirectPaths(paymentType string) (success, cancel string) {
	switch paymentType {
	case "classified":
		return "/classifieds?success=true", "/classifieds/new?canceled=true"
	case "directory":
		return "/directory?success=true", "/directory/new?canceled=true"
	default:
		return "/pricing?success=true", "/pricing?canceled=true"
	}
}

// providerErrorDetails surfaces Stripe's own message when one is available.
func providerErrorDetails(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return "The payment provider rejected the request."
}

func (s *ServiceImplementation) subscriptionPriceID(t CheckoutType) (string, error) {
	var priceID string
	switch t {
	case CheckoutSubscriptionBasic:
		priceID = s.cfg.StripeBasicPriceID
	case CheckoutSubscriptionPremium:
		priceID = s.cfg.StripePremiumPriceID
	case CheckoutSubscriptionBusiness:
		priceID = s.cfg.StripeBusinessPriceID
	default:
		return "", common.ErrBadRequest.WithDetails("Unknown checkout type.")
	}
	if priceID == "" {
		return "", common.ErrServiceUnavailable.WithDetails("This subscription is not available right now.")
	}
	return priceID, nil
}
