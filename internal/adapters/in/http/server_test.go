package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpin "messhall/internal/adapters/in/http"
	"messhall/internal/core/application/usecases/commands"
	"messhall/internal/core/application/usecases/queries"
	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
	"messhall/internal/pkg/errs"
)

// memRepo is an in-memory order repository backing the real command
// handlers in these tests. Query endpoints need a database and are covered
// by the queries package integration tests.
type memRepo struct {
	orders map[kernel.UUID]*order.Order
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[kernel.UUID]*order.Order)}
}

func (r *memRepo) Add(_ context.Context, o *order.Order) error {
	r.orders[o.ID()] = o
	return nil
}

func (r *memRepo) Update(_ context.Context, o *order.Order) error {
	r.orders[o.ID()] = o
	return nil
}

func (r *memRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (r *memRepo) Delete(_ context.Context, id kernel.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return errs.NewObjectNotFoundError("order", id)
	}
	delete(r.orders, id)
	return nil
}

func (r *memRepo) GetStaleDeletable(_ context.Context, _ time.Time) ([]*order.Order, error) {
	return nil, nil
}

type memUoW struct{ repo *memRepo }

func (u *memUoW) Begin(_ context.Context) error          { return nil }
func (u *memUoW) Commit(_ context.Context) error         { return nil }
func (u *memUoW) Rollback(_ context.Context) error       { return nil }
func (u *memUoW) OrderRepository() ports.OrderRepository { return u.repo }

type memUoWFactory struct{ repo *memRepo }

func (f *memUoWFactory) Create() commands.OrderUoW { return &memUoW{repo: f.repo} }

type stubCatalog struct {
	items map[kernel.UUID]ports.MenuItemInfo
}

func (c *stubCatalog) Resolve(
	_ context.Context, ids []kernel.UUID,
) (map[kernel.UUID]ports.MenuItemInfo, error) {
	result := make(map[kernel.UUID]ports.MenuItemInfo)
	for _, id := range ids {
		if info, ok := c.items[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

type nopBus struct{}

func (nopBus) Publish(_ string, _ ports.OrderEvent) {}

// fakeStream hands every subscriber the same channel so tests can inject
// events.
type fakeStream struct {
	ch           chan ports.OrderEvent
	unsubscribed int
}

func (s *fakeStream) Subscribe(_ string) chan ports.OrderEvent { return s.ch }

func (s *fakeStream) Unsubscribe(_ string, _ chan ports.OrderEvent) { s.unsubscribed++ }

type fixture struct {
	echo     *echo.Echo
	repo     *memRepo
	catalog  *stubCatalog
	stream   *fakeStream
	venueID  kernel.UUID
	customer kernel.UUID
	menuItem kernel.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	factory := &memUoWFactory{repo: repo}
	menuItem := kernel.NewUUID()
	catalog := &stubCatalog{items: map[kernel.UUID]ports.MenuItemInfo{
		menuItem: {Price: 250, IsActive: true, InStock: true},
	}}
	stream := &fakeStream{ch: make(chan ports.OrderEvent, 4)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := nopBus{}

	server := httpin.NewServer(
		commands.NewCreateOrderCommandHandler(factory, catalog, bus, logger),
		commands.NewAddItemsCommandHandler(factory, catalog, bus, logger),
		commands.NewCancelItemCommandHandler(factory, bus, logger),
		commands.NewSetStatusCommandHandler(factory, bus, logger),
		commands.NewCancelOrderCommandHandler(factory, bus, logger),
		commands.NewCompleteOrderCommandHandler(factory, bus, logger),
		commands.NewInitiatePaymentCommandHandler(factory, stubGateway{}, bus, logger),
		commands.NewSettlePaymentCommandHandler(factory, bus, logger),
		commands.NewDeleteOrderCommandHandler(factory, logger),
		queries.GetOrderQueryHandler{},
		queries.GetVenueOrdersQueryHandler{},
		queries.GetCustomerOrdersQueryHandler{},
		stream,
		"NPR",
	)

	e := echo.New()
	server.RegisterRoutes(e)

	return &fixture{
		echo:     e,
		repo:     repo,
		catalog:  catalog,
		stream:   stream,
		venueID:  kernel.NewUUID(),
		customer: kernel.NewUUID(),
		menuItem: menuItem,
	}
}

type stubGateway struct{}

func (stubGateway) Initiate(
	_ context.Context, orderID kernel.UUID, _ int, _, _ string,
) (ports.PaymentSession, error) {
	return ports.PaymentSession{
		ExternalRef: "pidx-" + orderID.String()[:8],
		RedirectURL: "https://pay.example.com/redirect",
	}, nil
}

// seedOrder places an order directly in the repository.
func (f *fixture) seedOrder(t *testing.T) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), f.menuItem, 2, 250)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), f.venueID, f.customer, nil, []*order.Item{item})
	require.NoError(t, err)
	f.repo.orders[o.ID()] = o
	return o
}

func (f *fixture) do(method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func customerHeader(f *fixture) map[string]string {
	return map[string]string{httpin.HeaderCustomerID: f.customer.String()}
}

func staffHeader(f *fixture) map[string]string {
	return map[string]string{httpin.HeaderVenueID: f.venueID.String()}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateOrder(t *testing.T) {
	t.Run("should create order and return full representation", func(t *testing.T) {
		f := newFixture(t)
		body := `{"venue_id":"` + f.venueID.String() + `","lines":[{"menu_item_id":"` + f.menuItem.String() + `","quantity":2}]}`

		rec := f.do(http.MethodPost, "/orders", body, customerHeader(f))

		require.Equal(t, http.StatusCreated, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "pending", response["status"])
		assert.Equal(t, float64(500), response["total"])
		assert.Equal(t, f.customer.String(), response["customer_id"])
		assert.Len(t, f.repo.orders, 1)
	})

	t.Run("should reject request without identity header", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/orders", `{}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/orders", `{not json`, customerHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject unknown menu item", func(t *testing.T) {
		f := newFixture(t)
		body := `{"venue_id":"` + f.venueID.String() + `","lines":[{"menu_item_id":"` + kernel.NewUUID().String() + `","quantity":1}]}`

		rec := f.do(http.MethodPost, "/orders", body, customerHeader(f))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should reject unavailable menu item", func(t *testing.T) {
		f := newFixture(t)
		soldOut := kernel.NewUUID()
		f.catalog.items[soldOut] = ports.MenuItemInfo{Price: 100, IsActive: true, InStock: false}
		body := `{"venue_id":"` + f.venueID.String() + `","lines":[{"menu_item_id":"` + soldOut.String() + `","quantity":1}]}`

		rec := f.do(http.MethodPost, "/orders", body, customerHeader(f))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("should advance status for venue staff", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/status",
			`{"status":"received"}`, staffHeader(f))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"received"`)
		assert.Equal(t, order.Received, f.repo.orders[o.ID()].Status())
	})

	t.Run("should reject customer actor", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/status",
			`{"status":"received"}`, customerHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject staff of another venue", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/status",
			`{"status":"received"}`,
			map[string]string{httpin.HeaderVenueID: kernel.NewUUID().String()})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should reject unknown status string", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/status",
			`{"status":"delivered"}`, staffHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return not found for unknown order", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/orders/"+kernel.NewUUID().String()+"/status",
			`{"status":"received"}`, staffHeader(f))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should reject malformed order id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/orders/not-a-uuid/status",
			`{"status":"received"}`, staffHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("should cancel own order", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/cancel", "", customerHeader(f))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_cancelled":true`)
	})

	t.Run("should reject another customer", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/cancel", "",
			map[string]string{httpin.HeaderCustomerID: kernel.NewUUID().String()})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should conflict on served order", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)
		for _, next := range []order.Status{order.Received, order.Preparing, order.Ready, order.Served} {
			require.NoError(t, o.SetStatus(next))
		}

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/cancel", "", customerHeader(f))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCancelItem(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t)
	itemID := o.Items()[0].ID()

	rec := f.do(http.MethodPost,
		"/orders/"+o.ID().String()+"/items/"+itemID.String()+"/cancel", "", customerHeader(f))

	require.Equal(t, http.StatusOK, rec.Code)
	// last live line gone, order cancelled as a whole
	assert.Contains(t, rec.Body.String(), `"is_cancelled":true`)
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestAddItems(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t)
	body := `{"lines":[{"menu_item_id":"` + f.menuItem.String() + `","quantity":1}]}`

	rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/items", body, customerHeader(f))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_added_items":true`)
	assert.Contains(t, rec.Body.String(), `"total":750`)
}

func TestCompleteOrder(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t)
	for _, next := range []order.Status{order.Received, order.Preparing, order.Ready, order.Served} {
		require.NoError(t, o.SetStatus(next))
	}

	rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/complete", "", staffHeader(f))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	assert.Contains(t, rec.Body.String(), `"method":"cash"`)
}

func TestInitiatePayment(t *testing.T) {
	t.Run("should return provider redirect", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)
		body := `{"method":"khalti","return_url":"https://app.example.com/return"}`

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/payment", body, customerHeader(f))

		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "https://pay.example.com/redirect", response["redirect_url"])
		assert.NotEmpty(t, response["external_ref"])
	})

	t.Run("should reject cash", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)
		body := `{"method":"cash","return_url":"https://app.example.com/return"}`

		rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/payment", body, customerHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentCallback(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t)
	body := `{"method":"khalti","return_url":"https://app.example.com/return"}`
	rec := f.do(http.MethodPost, "/orders/"+o.ID().String()+"/payment", body, customerHeader(f))
	require.Equal(t, http.StatusOK, rec.Code)

	callback := `{"order_id":"` + o.ID().String() + `","status":"success","external_ref":"txn-1"}`
	rec = f.do(http.MethodPost, "/payments/callback", callback, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	assert.Contains(t, rec.Body.String(), `"is_paid":true`)
}

func TestDeleteOrder(t *testing.T) {
	t.Run("should delete pending order", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodDelete, "/orders/"+o.ID().String(), "", staffHeader(f))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, f.repo.orders)
	})

	t.Run("should conflict on non-deletable order", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)
		require.NoError(t, o.SetStatus(order.Received))

		rec := f.do(http.MethodDelete, "/orders/"+o.ID().String(), "", staffHeader(f))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Len(t, f.repo.orders, 1)
	})

	t.Run("should reject customer actor", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t)

		rec := f.do(http.MethodDelete, "/orders/"+o.ID().String(), "", customerHeader(f))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVenueEvents(t *testing.T) {
	t.Run("should reject staff of another venue", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/venues/"+kernel.NewUUID().String()+"/events", "", staffHeader(f))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should reject customers", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/venues/"+f.venueID.String()+"/events", "", customerHeader(f))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should relay published events until disconnect", func(t *testing.T) {
		f := newFixture(t)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/venues/"+f.venueID.String()+"/events", nil)
		req.Header.Set(httpin.HeaderVenueID, f.venueID.String())
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			f.echo.ServeHTTP(rec, req)
			close(done)
		}()

		f.stream.ch <- ports.OrderEvent{
			OrderID: kernel.NewUUID().String(),
			VenueID: f.venueID.String(),
			Status:  "received",
		}

		// once drained the handler has written the event before its next select
		require.Eventually(t, func() bool {
			return len(f.stream.ch) == 0
		}, time.Second, 10*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("stream handler did not stop after disconnect")
		}

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "event: order")
		assert.Contains(t, rec.Body.String(), `"status":"received"`)
		assert.Equal(t, 1, f.stream.unsubscribed)
	})
}
