package barbershop

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/url"
	"time"
)

// slotDateLayout is the date format of the available-slots endpoint.
const slotDateLayout = "2006-01-02"

// AppointmentFilter narrows MyAppointments. Zero fields are omitted.
type AppointmentFilter struct {
	Page   int
	Limit  int
	Status string
	From   time.Time
	To     time.Time
}

func (f AppointmentFilter) values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "status", f.Status)
	if !f.From.IsZero() {
		v.Set("startDate", f.From.Format(slotDateLayout))
	}
	if !f.To.IsZero() {
		v.Set("endDate", f.To.Format(slotDateLayout))
	}
	return v
}

// MyAppointments lists the logged-in user's appointments.
func (a *API) MyAppointments(ctx context.Context, f AppointmentFilter) (*AppointmentList, error) {
	var out AppointmentList
	if err := a.get(ctx, "/appointments/user", f.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment books serviceID at the given time.
func (a *API) CreateAppointment(ctx context.Context, serviceID string, at time.Time) (*Appointment, error) {
	if serviceID == "" {
		return nil, errors.New("barbershop: service id is required")
	}
	var out Appointment
	in := map[string]string{"serviceId": serviceID, "date": at.UTC().Format(time.RFC3339)}
	if err := a.call(ctx, nethttp.MethodPost, "/appointments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) CancelAppointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := a.call(ctx, nethttp.MethodPatch, pathf("/appointments/%s/cancel", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableSlots returns the free start times for a service on day.
func (a *API) AvailableSlots(ctx context.Context, serviceID string, day time.Time) ([]string, error) {
	var out []string
	q := url.Values{"serviceId": {serviceID}, "date": {day.Format(slotDateLayout)}}
	if err := a.get(ctx, "/appointments/available-slots", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) AppointmentStats(ctx context.Context) (*AppointmentStats, error) {
	var out AppointmentStats
	if err := a.get(ctx, "/appointments/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UserStats(ctx context.Context) (*UserStats, error) {
	var out UserStats
	if err := a.get(ctx, "/users/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) FinancialStats(ctx context.Context) (*FinancialStats, error) {
	var out FinancialStats
	if err := a.get(ctx, "/financial/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
