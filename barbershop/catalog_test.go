package barbershop

import (
	"context"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListServices(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /services": respondData(map[string]any{
			"services": []map[string]any{{"_id": "s1", "name": "Corte", "price": 45.0, "duration": 30, "isActive": true}},
			"total":    1,
		}),
	})
	client, _ := newTestAPI(t, api.URL)

	active := true
	list, err := client.ListServices(context.Background(), ServiceFilter{Page: 2, Limit: 10, Search: "corte", Active: &active})
	require.NoError(t, err)
	require.Len(t, list.Services, 1)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Corte", list.Services[0].Name)
	assert.Equal(t, 30, list.Services[0].Duration)

	assert.Equal(t, "active=true&limit=10&page=2&search=corte", api.recorded()[0].query)
}

func TestServiceLookups(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /services/s1":             respondData(map[string]any{"_id": "s1", "name": "Barba"}),
		"GET /services/category/barba": respondJSON(nethttp.StatusOK, []map[string]any{{"_id": "s1"}, {"_id": "s2"}}),
		"GET /services/stats":          respondData(map[string]any{"totalServices": 4, "popularServices": []map[string]any{{"name": "Corte", "count": 10, "revenue": 450}}}),
	})
	client, _ := newTestAPI(t, api.URL)
	ctx := context.Background()

	svc, err := client.GetService(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Barba", svc.Name)

	byCategory, err := client.ServicesByCategory(ctx, "barba")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	stats, err := client.ServiceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalServices)
	assert.InDelta(t, 450.0, stats.PopularServices[0].Revenue, 0.001)
}

func TestListProducts(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /products": respondJSON(nethttp.StatusOK, []map[string]any{
			{"_id": "p1", "name": "Pomada", "price": 30.0, "discountPrice": 25.0, "stock": 3, "featured": true},
			{"_id": "p2", "name": "Óleo", "price": 40.0},
		}),
		"GET /products/p1":    respondJSON(nethttp.StatusOK, map[string]any{"_id": "p1", "name": "Pomada", "price": 30.0}),
		"GET /products/stats": respondData(map[string]any{"totalProducts": 2, "lowStockProducts": 1}),
	})
	client, _ := newTestAPI(t, api.URL)
	ctx := context.Background()

	featured := true
	products, err := client.ListProducts(ctx, ProductFilter{Category: "cabelo", Featured: &featured, Limit: 4})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.InDelta(t, 25.0, products[0].EffectivePrice(), 0.001)
	assert.InDelta(t, 40.0, products[1].EffectivePrice(), 0.001)
	assert.Equal(t, "category=cabelo&featured=true&limit=4", api.recorded()[0].query)

	p, err := client.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p.DiscountPrice)

	stats, err := client.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LowStockProducts)
}

func TestCartOperations(t *testing.T) {
	cart := map[string]any{
		"_id":         "c1",
		"items":       []map[string]any{{"_id": "i1", "quantity": 2, "price": 30}, {"_id": "i2", "quantity": 1, "price": 40}},
		"totalAmount": 100,
	}
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /cart":            respondData(cart),
		"POST /cart/add":       respondData(cart),
		"PUT /cart/item/i1":    respondData(cart),
		"DELETE /cart/item/i2": respondData(cart),
		"DELETE /cart":         respondData(map[string]any{"_id": "c1", "items": []any{}}),
	})
	client, _ := newTestAPI(t, api.URL)
	ctx := context.Background()

	c, err := client.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, c.ItemCount())

	_, err = client.AddToCart(ctx, "p1", 0)
	require.NoError(t, err)
	_, err = client.UpdateCartItem(ctx, "i1", 5)
	require.NoError(t, err)
	_, err = client.RemoveCartItem(ctx, "i2")
	require.NoError(t, err)
	cleared, err := client.ClearCart(ctx)
	require.NoError(t, err)
	assert.Zero(t, cleared.ItemCount())

	_, err = client.AddToCart(ctx, "p1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = client.UpdateCartItem(ctx, "i1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	calls := api.recorded()
	require.Len(t, calls, 5)
	assert.Equal(t, "p1", calls[1].body["productId"])
	assert.InDelta(t, 1.0, calls[1].body["quantity"], 0.001)
	assert.InDelta(t, 5.0, calls[2].body["quantity"], 0.001)
	assert.Equal(t, nethttp.MethodDelete, calls[3].method)
	assert.Equal(t, "/cart/item/i2", calls[3].path)
}

func TestAppointments(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /appointments/user": respondData(map[string]any{
			"appointments": []map[string]any{{"_id": "a1", "status": StatusScheduled, "date": "2026-10-20T14:00:00Z"}},
			"total":        1,
		}),
		"POST /appointments":                respondData(map[string]any{"_id": "a2", "status": StatusScheduled}),
		"PATCH /appointments/a1/cancel":     respondData(map[string]any{"_id": "a1", "status": StatusCanceled}),
		"GET /appointments/available-slots": respondData([]string{"09:00", "09:30"}),
		"GET /appointments/stats":           respondData(map[string]any{"totalAppointments": 12}),
	})
	client, _ := newTestAPI(t, api.URL)
	ctx := context.Background()
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	list, err := client.MyAppointments(ctx, AppointmentFilter{Status: StatusScheduled, From: day, To: day.AddDate(0, 0, 7)})
	require.NoError(t, err)
	require.Len(t, list.Appointments, 1)
	assert.Equal(t, 14, list.Appointments[0].Date.Hour())

	created, err := client.CreateAppointment(ctx, "s1", day.Add(14*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "a2", created.ID)

	canceled, err := client.CancelAppointment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, canceled.Status)

	slots, err := client.AvailableSlots(ctx, "s1", day)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, slots)

	stats, err := client.AppointmentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalAppointments)

	_, err = client.CreateAppointment(ctx, "", day)
	assert.Error(t, err)

	calls := api.recorded()
	require.Len(t, calls, 5)
	assert.Equal(t, "endDate=2026-10-27&startDate=2026-10-20&status=scheduled", calls[0].query)
	assert.Equal(t, "s1", calls[1].body["serviceId"])
	assert.Equal(t, "2026-10-20T14:00:00Z", calls[1].body["date"])
	assert.Equal(t, "date=2026-10-20&serviceId=s1", calls[3].query)
}
