package httpapi_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/internal/billing"
	"github.com/memeforge/memeforge/internal/caption"
	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/httpapi"
	"github.com/memeforge/memeforge/internal/meme"
	"github.com/memeforge/memeforge/internal/subscription"
	"github.com/memeforge/memeforge/pkg/ratelimit"
)

// Function-field stubs keep each test focused on the one behavior it
// overrides; unset fields fail loudly via nil dereference.

type stubAuth struct {
	register     func(ctx context.Context, email, password string) (*auth.User, string, error)
	login        func(ctx context.Context, email, password string) (*auth.User, string, error)
	authenticate func(ctx context.Context, token string) (*auth.Identity, error)
}

func (s *stubAuth) Register(ctx context.Context, email, password string) (*auth.User, string, error) {
	return s.register(ctx, email, password)
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*auth.User, string, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	return s.authenticate(ctx, token)
}

type stubEntitlements struct {
	check  func(ctx context.Context, userID uuid.UUID) (entitlement.Decision, error)
	record func(ctx context.Context, userID uuid.UUID) (entitlement.UsageRecord, error)
	usage  func(ctx context.Context, userID uuid.UUID) (entitlement.UsageRecord, error)
}

func (s *stubEntitlements) CheckEntitlement(ctx context.Context, userID uuid.UUID) (entitlement.Decision, error) {
	return s.check(ctx, userID)
}

func (s *stubEntitlements) RecordGeneration(ctx context.Context, userID uuid.UUID) (entitlement.UsageRecord, error) {
	return s.record(ctx, userID)
}

func (s *stubEntitlements) Usage(ctx context.Context, userID uuid.UUID) (entitlement.UsageRecord, error) {
	return s.usage(ctx, userID)
}

type stubCaptions struct {
	generate func(ctx context.Context, image []byte, mimeType string) (caption.Pair, error)
}

func (s *stubCaptions) Generate(ctx context.Context, image []byte, mimeType string) (caption.Pair, error) {
	return s.generate(ctx, image, mimeType)
}

type stubMemes struct {
	save func(ctx context.Context, userID uuid.UUID, imageURL, topText, bottomText string) *meme.Meme
	list func(ctx context.Context, userID uuid.UUID) ([]meme.Meme, error)
}

func (s *stubMemes) SaveArtifact(ctx context.Context, userID uuid.UUID, imageURL, topText, bottomText string) *meme.Meme {
	return s.save(ctx, userID, imageURL, topText, bottomText)
}

func (s *stubMemes) ListByUser(ctx context.Context, userID uuid.UUID) ([]meme.Meme, error) {
	return s.list(ctx, userID)
}

type stubMedia struct {
	save func(ctx context.Context, r io.Reader, contentType, path string) (string, error)
}

func (s *stubMedia) Save(ctx context.Context, r io.Reader, contentType, path string) (string, error) {
	return s.save(ctx, r, contentType, path)
}

func (s *stubMedia) Delete(context.Context, string) error { return nil }
func (s *stubMedia) URL(path string) string               { return path }

type stubBilling struct {
	checkout func(ctx context.Context, userID uuid.UUID, email string, planType subscription.PlanType) (*billing.CheckoutLink, error)
	webhook  func(ctx context.Context, payload []byte, signature string) error
}

func (s *stubBilling) CreateCheckout(ctx context.Context, userID uuid.UUID, email string, planType subscription.PlanType) (*billing.CheckoutLink, error) {
	return s.checkout(ctx, userID, email, planType)
}

func (s *stubBilling) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhook(ctx, payload, signature)
}

type stubAdmin struct {
	listUsers  func(ctx context.Context, limit, offset int) ([]auth.User, error)
	listUsage  func(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error)
	listSubs   func(ctx context.Context, limit, offset int) ([]subscription.Subscription, error)
	listMemes  func(ctx context.Context, limit, offset int) ([]meme.Meme, error)
	deleteMeme func(ctx context.Context, id uuid.UUID) error
}

func (s *stubAdmin) ListUsers(ctx context.Context, limit, offset int) ([]auth.User, error) {
	return s.listUsers(ctx, limit, offset)
}

func (s *stubAdmin) ListUsage(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error) {
	return s.listUsage(ctx, limit, offset)
}

func (s *stubAdmin) ListSubscriptions(ctx context.Context, limit, offset int) ([]subscription.Subscription, error) {
	return s.listSubs(ctx, limit, offset)
}

func (s *stubAdmin) ListMemes(ctx context.Context, limit, offset int) ([]meme.Meme, error) {
	return s.listMemes(ctx, limit, offset)
}

func (s *stubAdmin) DeleteMeme(ctx context.Context, id uuid.UUID) error {
	return s.deleteMeme(ctx, id)
}

type stubSubs struct {
	active func(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error)
}

func (s *stubSubs) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	return s.active(ctx, userID)
}

var (
	testUserID  = uuid.MustParse("6f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8")
	testAdminID = uuid.MustParse("0e9d8c7b-6a59-4847-b6a5-94a3b2c1d0ef")
)

// testDeps returns deps where authentication accepts "user-token" and
// "admin-token" and everything else is a safe default.
func testDeps(t *testing.T) httpapi.Deps {
	t.Helper()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(store.Close)
	limiter, err := ratelimit.NewSlidingWindow(store, ratelimit.Config{Limit: 100, Window: time.Minute})
	require.NoError(t, err)

	return httpapi.Deps{
		Auth: &stubAuth{
			authenticate: func(_ context.Context, token string) (*auth.Identity, error) {
				switch token {
				case "user-token":
					return &auth.Identity{UserID: testUserID, Email: "user@example.com"}, nil
				case "admin-token":
					return &auth.Identity{UserID: testAdminID, Email: "admin@example.com", IsAdmin: true}, nil
				default:
					return nil, auth.ErrInvalidToken
				}
			},
		},
		Entitlements: &stubEntitlements{
			check: func(context.Context, uuid.UUID) (entitlement.Decision, error) {
				return entitlement.Decision{Allowed: true, Reason: entitlement.ReasonFreeQuota, RemainingAfter: 5}, nil
			},
			record: func(context.Context, uuid.UUID) (entitlement.UsageRecord, error) {
				return entitlement.UsageRecord{UserID: testUserID, FreeRemaining: 4, TotalGenerated: 1}, nil
			},
			usage: func(context.Context, uuid.UUID) (entitlement.UsageRecord, error) {
				return entitlement.UsageRecord{UserID: testUserID, FreeRemaining: 5}, nil
			},
		},
		Captions: &stubCaptions{
			generate: func(context.Context, []byte, string) (caption.Pair, error) {
				return caption.Pair{Top: "top", Bottom: "bottom"}, nil
			},
		},
		Memes: &stubMemes{
			save: func(_ context.Context, userID uuid.UUID, imageURL, topText, bottomText string) *meme.Meme {
				return &meme.Meme{ID: uuid.New(), UserID: userID, ImageURL: imageURL, TopText: topText, BottomText: bottomText, CreatedAt: time.Now()}
			},
			list: func(context.Context, uuid.UUID) ([]meme.Meme, error) { return nil, nil },
		},
		Media: &stubMedia{
			save: func(_ context.Context, _ io.Reader, _, path string) (string, error) {
				return "/uploads/" + path, nil
			},
		},
		Billing: &stubBilling{
			checkout: func(context.Context, uuid.UUID, string, subscription.PlanType) (*billing.CheckoutLink, error) {
				return &billing.CheckoutLink{URL: "https://pay.example.com/c/1"}, nil
			},
			webhook: func(context.Context, []byte, string) error { return nil },
		},
		Admin: &stubAdmin{
			listUsers: func(context.Context, int, int) ([]auth.User, error) { return nil, nil },
			listUsage: func(context.Context, int, int) ([]entitlement.UsageRecord, error) { return nil, nil },
			listSubs:  func(context.Context, int, int) ([]subscription.Subscription, error) { return nil, nil },
			listMemes: func(context.Context, int, int) ([]meme.Meme, error) { return nil, nil },
			deleteMeme: func(context.Context, uuid.UUID) error {
				return nil
			},
		},
		Subs: &stubSubs{
			active: func(context.Context, uuid.UUID) ([]subscription.Subscription, error) { return nil, nil },
		},
		Limiter: limiter,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// multipartImage builds a multipart body with an "image" file part and
// optional extra form fields.
func multipartImage(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", "template.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func authedRequest(method, target, token string, body io.Reader) *http.Request {
	req, _ := http.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
