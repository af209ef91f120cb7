package cashonrails

// envelope is the shape of every CashOnRails response body.
// Success is a pointer so that an absent flag reads as failure.
type envelope[T any] struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

func (e *envelope[T]) ok() bool {
	return e.Success != nil && *e.Success
}

type customerData struct {
	CustomerCode string `json:"customer_code"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
}

type verifyData struct {
	Status string `json:"status"`
}
