package inventory

// Line is one product quantity to take out of stock.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int
}

type Processed struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
}

type Shortfall struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// Report is the outcome of a decrement pass. It is collected, never raised:
// a confirmed payment is not rolled back because stock ran short.
type Report struct {
	Processed  []Processed `json:"processed"`
	Shortfalls []Shortfall `json:"shortfalls"`
	Errors     []string    `json:"errors"`
}

func NewReport() *Report {
	return &Report{
		Processed:  []Processed{},
		Shortfalls: []Shortfall{},
		Errors:     []string{},
	}
}

func (r *Report) Clean() bool {
	return len(r.Shortfalls) == 0 && len(r.Errors) == 0
}
