package models

// Table is a bookable table. Collections are presented sorted by Order.
type Table struct {
	Record
	Name        string `json:"name"`
	Number      string `json:"number,omitempty"`
	Capacity    int    `json:"capacity"`
	MinCapacity int    `json:"minCapacity,omitempty"`
	Order       int    `json:"order,omitempty"`
	Area        string `json:"area,omitempty"`
	Shape       string `json:"shape,omitempty"`
	Status      string `json:"status,omitempty"`
	Active      bool   `json:"active"`
}

// FloorPlan positions tables on a canvas.
type FloorPlan struct {
	Record
	Name       string         `json:"name"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Background string         `json:"background,omitempty"`
	IsDefault  bool           `json:"isDefault,omitempty"`
	Tables     []TableElement `json:"tables,omitempty"`
}

// TableElement is a table placed on a floor plan.
type TableElement struct {
	TableID  string  `json:"tableId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Shape    string  `json:"shape,omitempty"`
}

// BookingStatus is a configurable status label with presentation color.
type BookingStatus struct {
	Record
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// BookingTag labels bookings and customers.
type BookingTag struct {
	Record
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}
