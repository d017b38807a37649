package http

import (
	"time"

	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/application/usecases/queries"
	"rxdelivery/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TransitionError is returned with 409 when the requested status is not the next one.
type TransitionError struct {
	Error
	CurrentStatus string `json:"current_status"`
	NextStatus    string `json:"next_status,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// NewDelivery is the registration request. A missing id is generated, a missing
// assigned_at defaults to the time of the request.
type NewDelivery struct {
	ID         string     `json:"id,omitempty"`
	Customer   Customer   `json:"customer"`
	Items      []Item     `json:"items"`
	Total      string     `json:"total"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

type AdvanceRequest struct {
	Status string `json:"status"`
}

type Delivery struct {
	ID          string     `json:"id"`
	Customer    Customer   `json:"customer"`
	Items       []Item     `json:"items"`
	Total       string     `json:"total"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"status_label"`
	Badge       string     `json:"badge"`
	Icon        string     `json:"icon"`
	NextStatus  string     `json:"next_status,omitempty"`
	NextLabel   string     `json:"next_label,omitempty"`
	NextIcon    string     `json:"next_icon,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt *time.Time `json:"in_transit_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type Board struct {
	ActiveCount    int    `json:"active_count"`
	CompletedCount int    `json:"completed_count"`
	ActiveLabel    string `json:"active_label"`
	CompletedLabel string `json:"completed_label"`
}

type HistoryEntry struct {
	From string    `json:"from,omitempty"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

func (r NewDelivery) itemInputs() []commands.ItemInput {
	inputs := make([]commands.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		inputs = append(inputs, commands.ItemInput{ProductID: item.ID, Name: item.Name, Quantity: item.Quantity})
	}
	return inputs
}

func toDelivery(view queries.DeliveryView) Delivery {
	items := make([]Item, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, Item{ID: item.ProductID, Name: item.Name, Quantity: item.Quantity})
	}

	presentation := view.Presentation
	delivery := Delivery{
		ID: view.ID,
		Customer: Customer{
			Name:    view.CustomerName,
			Address: view.CustomerAddress,
			Phone:   view.CustomerPhone,
		},
		Items:       items,
		Total:       view.Total,
		Status:      view.Status.Code(),
		StatusLabel: presentation.Label,
		Badge:       string(presentation.Badge),
		Icon:        string(presentation.Icon),
		AssignedAt:  view.AssignedAt,
		PickedUpAt:  view.PickedUpAt,
		InTransitAt: view.InTransitAt,
		DeliveredAt: view.DeliveredAt,
	}
	if presentation.HasNext {
		delivery.NextStatus = presentation.Next.Code()
		delivery.NextLabel = presentation.NextLabel
		delivery.NextIcon = string(presentation.NextIcon)
	}
	return delivery
}

func toDeliveries(views []queries.DeliveryView) []Delivery {
	deliveries := make([]Delivery, len(views))
	for i, view := range views {
		deliveries[i] = toDelivery(view)
	}
	return deliveries
}

func toBoard(view queries.BoardView) Board {
	return Board{
		ActiveCount:    view.ActiveCount,
		CompletedCount: view.CompletedCount,
		ActiveLabel:    view.ActiveLabel,
		CompletedLabel: view.CompletedLabel,
	}
}

func toHistory(entries []queries.HistoryEntry) []HistoryEntry {
	history := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		history[i] = HistoryEntry{From: entry.From.Code(), To: entry.To.Code(), At: entry.At}
	}
	return history
}

func toTransitionError(code int, err *order.IllegalTransitionError) TransitionError {
	body := TransitionError{
		Error:         Error{Code: code, Message: err.Error()},
		CurrentStatus: err.From.Code(),
	}
	if next, ok := err.From.Next(); ok {
		body.NextStatus = next.Code()
	}
	return body
}
