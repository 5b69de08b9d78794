package barbershop

import "time"

// Service is a bookable barbershop service.
type Service struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Duration    int       `json:"duration"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ServiceList struct {
	Services []Service `json:"services"`
	Total    int       `json:"total"`
}

// Product is an item sold in the shop.
type Product struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"isActive"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EffectivePrice is the discount price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

type CartProduct struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         string   `json:"image,omitempty"`
	Stock         int      `json:"stock"`
	IsActive      bool     `json:"isActive"`
}

type CartItem struct {
	ID       string      `json:"_id"`
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
	Price    float64     `json:"price"`
}

// Cart is the logged-in user's shopping cart.
type Cart struct {
	ID          string     `json:"_id"`
	User        string     `json:"user"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ItemCount sums item quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

type AppointmentUser struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type AppointmentService struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
}

type Appointment struct {
	ID        string             `json:"_id"`
	User      AppointmentUser    `json:"user"`
	Service   AppointmentService `json:"service"`
	Date      time.Time          `json:"date"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
	Total        int           `json:"total"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

type UserStats struct {
	TotalUsers        int          `json:"totalUsers"`
	ActiveUsers       int          `json:"activeUsers"`
	NewUsersThisMonth int          `json:"newUsersThisMonth"`
	UsersByMonth      []MonthCount `json:"usersByMonth"`
}

type AppointmentStats struct {
	TotalAppointments     int            `json:"totalAppointments"`
	AppointmentsToday     int            `json:"appointmentsToday"`
	AppointmentsThisWeek  int            `json:"appointmentsThisWeek"`
	AppointmentsThisMonth int            `json:"appointmentsThisMonth"`
	UpcomingAppointments  int            `json:"upcomingAppointments"`
	CompletedAppointments int            `json:"completedAppointments"`
	CanceledAppointments  int            `json:"canceledAppointments"`
	AppointmentsByDay     []DayCount     `json:"appointmentsByDay"`
	AppointmentsByService []ServiceCount `json:"appointmentsByService"`
}

type PopularService struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ServiceStats struct {
	TotalServices   int              `json:"totalServices"`
	PopularServices []PopularService `json:"popularServices"`
}

type TopProduct struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

type ProductStats struct {
	TotalProducts      int          `json:"totalProducts"`
	LowStockProducts   int          `json:"lowStockProducts"`
	FeaturedProducts   int          `json:"featuredProducts"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TopSellingProducts []TopProduct `json:"topSellingProducts"`
}

type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type FinancialStats struct {
	TotalRevenue     float64       `json:"totalRevenue"`
	RevenueThisMonth float64       `json:"revenueThisMonth"`
	RevenueGrowth    float64       `json:"revenueGrowth"`
	RevenueByMonth   []MonthAmount `json:"revenueByMonth"`
}
