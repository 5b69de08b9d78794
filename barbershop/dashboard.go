package barbershop

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/barbearia/apiclient/httpclient"
)

// Dashboard sections.
const (
	SectionUsers        = "users"
	SectionAppointments = "appointments"
	SectionServices     = "services"
	SectionProducts     = "products"
	SectionFinancial    = "financial"
)

// Dashboard is the admin overview. Degraded lists the sections that could
// not be fetched and hold zero values instead.
type Dashboard struct {
	Users        UserStats        `json:"userStats"`
	Appointments AppointmentStats `json:"appointmentStats"`
	Services     ServiceStats     `json:"serviceStats"`
	Products     ProductStats     `json:"productStats"`
	Financial    FinancialStats   `json:"financialStats"`
	Degraded     []string         `json:"degraded,omitempty"`
}

var (
	monthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago"}
	dayLabels   = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}
)

func emptyUserStats() UserStats {
	s := UserStats{UsersByMonth: make([]MonthCount, 0, len(monthLabels))}
	for _, m := range monthLabels {
		s.UsersByMonth = append(s.UsersByMonth, MonthCount{Month: m})
	}
	return s
}

func emptyAppointmentStats() AppointmentStats {
	s := AppointmentStats{
		AppointmentsByDay:     make([]DayCount, 0, len(dayLabels)),
		AppointmentsByService: []ServiceCount{},
	}
	for _, d := range dayLabels {
		s.AppointmentsByDay = append(s.AppointmentsByDay, DayCount{Day: d})
	}
	return s
}

func emptyFinancialStats() FinancialStats {
	s := FinancialStats{RevenueByMonth: make([]MonthAmount, 0, len(monthLabels))}
	for _, m := range monthLabels {
		s.RevenueByMonth = append(s.RevenueByMonth, MonthAmount{Month: m})
	}
	return s
}

// Dashboard fetches the five stats sections concurrently. A failing section
// is replaced by its zero value and listed in Degraded; only an expired
// session fails the whole call.
func (a *API) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		Users:        emptyUserStats(),
		Appointments: emptyAppointmentStats(),
		Services:     ServiceStats{PopularServices: []PopularService{}},
		Products:     ProductStats{TopSellingProducts: []TopProduct{}},
		Financial:    emptyFinancialStats(),
	}
	degraded := make([]bool, 5)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(idx int, section string, load func(context.Context) error) {
		g.Go(func() error {
			err := load(gctx)
			if err == nil {
				return nil
			}
			if httpclient.IsAuthExpired(err) {
				return err
			}
			degraded[idx] = true
			a.log.Warn().Err(err).Str("section", section).Msg("Dashboard section unavailable, using empty stats")
			return nil
		})
	}

	fetch(0, SectionUsers, func(ctx context.Context) error {
		s, err := a.UserStats(ctx)
		if err == nil {
			d.Users = *s
		}
		return err
	})
	fetch(1, SectionAppointments, func(ctx context.Context) error {
		s, err := a.AppointmentStats(ctx)
		if err == nil {
			d.Appointments = *s
		}
		return err
	})
	fetch(2, SectionServices, func(ctx context.Context) error {
		s, err := a.ServiceStats(ctx)
		if err == nil {
			d.Services = *s
		}
		return err
	})
	fetch(3, SectionProducts, func(ctx context.Context) error {
		s, err := a.ProductStats(ctx)
		if err == nil {
			d.Products = *s
		}
		return err
	})
	fetch(4, SectionFinancial, func(ctx context.Context) error {
		s, err := a.FinancialStats(ctx)
		if err == nil {
			d.Financial = *s
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, section := range []string{SectionUsers, SectionAppointments, SectionServices, SectionProducts, SectionFinancial} {
		if degraded[i] {
			d.Degraded = append(d.Degraded, section)
		}
	}
	return d, nil
}
