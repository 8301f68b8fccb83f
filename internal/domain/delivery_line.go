package domain

// One row of the delivery archive, kept as raw text.
// Numeric fields are parsed during reconstruction so that noisy cells
// ("C/S", blanks) can fall back to zero.
type DeliveryLine struct {
	LocationCode string
	RouteCode    string
	HorseCode    string
	TrailerCode  string
	CarriedLoad  string
	Dry          string
	Perishable   string
	PickByLine   string
}
