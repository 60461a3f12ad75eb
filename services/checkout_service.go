package services

import (
	"fmt"
	"strconv"
	"strings"

	"storefront-service/apperrors"
	"storefront-service/models"

	"github.com/stripe/stripe-go/v80"
)

// CheckoutService builds processor sessions from order intents. All checkout
// state lives with the processor; nothing is persisted locally.
type CheckoutService struct {
	provider       CheckoutProvider
	successURLBase string
	cancelURL      string
}

func NewCheckoutService(provider CheckoutProvider, successURLBase, cancelURL string) *CheckoutService {
	return &CheckoutService{
		provider:       provider,
		successURLBase: successURLBase,
		cancelURL:      cancelURL,
	}
}

// PriceToMinorUnits normalizes a display price string ("$3", "$10/MO") to
// minor currency units. Every non-digit byte is stripped before parsing;
// a result of zero or less is rejected.
func PriceToMinorUnits(price string) (int64, error) {
	var digits strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("no digits in price %q", price)
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("non-positive price %q", price)
	}
	return n * 100, nil
}

// CreateSession validates the intent, builds the session request and submits
// it to the processor. Returns the processor-hosted redirect URL.
func (s *CheckoutService) CreateSession(intent models.OrderIntent) (string, error) {
	amount, err := PriceToMinorUnits(intent.Price)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidOrderIntent, err)
	}

	name := intent.Name
	if name == "" {
		name = "Storefront Asset"
	}
	kind := intent.ResolveKind()
	mode := stripe.CheckoutSessionModePayment
	if kind == models.KindRecurring {
		mode = stripe.CheckoutSessionModeSubscription
	}

	successURL := fmt.Sprintf("%s?item_id=%s&session_id={CHECKOUT_SESSION_ID}", s.successURLBase, intent.ItemID)

	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(amount),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(name),
		},
	}
	if intent.Img != "" {
		priceData.ProductData.Images = stripe.StringSlice([]string{intent.Img})
	}
	if kind == models.KindRecurring {
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(s.cancelURL),
		Mode:               stripe.String(string(mode)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("itemId", intent.ItemID)
	params.AddMetadata("uid", intent.UID)
	params.AddMetadata("kind", kind)

	sess, err := s.provider.CreateSession(params)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrProcessorRejected, err)
	}
	return sess.URL, nil
}

// VerifySession fetches a session from the processor and reports whether it
// is paid, along with the order metadata carried through the redirect. The
// kind is the one resolved at session creation; sessions from before that
// field was recorded come back with it empty.
func (s *CheckoutService) VerifySession(sessionID string) (paid bool, itemID, uid, kind string, err error) {
	sess, err := s.provider.GetSession(sessionID)
	if err != nil {
		return false, "", "", "", apperrors.Wrap(apperrors.ErrProcessorRejected, err)
	}
	itemID = sess.Metadata["itemId"]
	uid = sess.Metadata["uid"]
	kind = sess.Metadata["kind"]
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, itemID, uid, kind, nil
}
