package barbershop

import (
	"context"
	"net/url"
	"strconv"
)

// ServiceFilter narrows ListServices. Zero fields are omitted.
type ServiceFilter struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	Order  string
	Active *bool
}

func (f ServiceFilter) values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "search", f.Search)
	setString(v, "sort", f.Sort)
	setString(v, "order", f.Order)
	setBool(v, "active", f.Active)
	return v
}

func (a *API) ListServices(ctx context.Context, f ServiceFilter) (*ServiceList, error) {
	var out ServiceList
	if err := a.get(ctx, "/services", f.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) GetService(ctx context.Context, id string) (*Service, error) {
	var out Service
	if err := a.get(ctx, pathf("/services/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ServicesByCategory(ctx context.Context, category string) ([]Service, error) {
	var out []Service
	if err := a.get(ctx, pathf("/services/category/%s", category), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) ServiceStats(ctx context.Context) (*ServiceStats, error) {
	var out ServiceStats
	if err := a.get(ctx, "/services/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductFilter narrows ListProducts. Zero fields are omitted.
type ProductFilter struct {
	Category string
	Featured *bool
	Limit    int
	Search   string
}

func (f ProductFilter) values() url.Values {
	v := url.Values{}
	setString(v, "category", f.Category)
	setBool(v, "featured", f.Featured)
	setInt(v, "limit", f.Limit)
	setString(v, "search", f.Search)
	return v
}

func (a *API) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	var out []Product
	if err := a.get(ctx, "/products", f.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := a.get(ctx, pathf("/products/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ProductStats(ctx context.Context) (*ProductStats, error) {
	var out ProductStats
	if err := a.get(ctx, "/products/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

func setBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}
