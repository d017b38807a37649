// Package seed provides the deliveries a fresh installation starts with.
//
// The data is YAML, embedded at build time or read from a file. Every record is replayed
// through the Order aggregate, so seeded orders satisfy the same timeline rules as live
// ones and come with the status history a live order would have.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/ports"

	"gopkg.in/yaml.v3"
)

// TimeLayout is the timestamp layout of seed files. Timestamps are read as UTC.
const TimeLayout = "2006-01-02T15:04:05"

//go:embed deliveries.yaml
var defaultDeliveries []byte

// Record is a seeded order together with the status changes that produced it,
// registration first.
type Record struct {
	Order   *order.Order
	History []order.StatusChange
}

type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value.Value), time.UTC)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	t.Time = parsed
	return nil
}

type file struct {
	Deliveries []delivery `yaml:"deliveries"`
}

type delivery struct {
	ID       string `yaml:"id"`
	Customer struct {
		Name    string `yaml:"name"`
		Address string `yaml:"address"`
		Phone   string `yaml:"phone"`
	} `yaml:"customer"`
	Items []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Quantity int    `yaml:"quantity"`
	} `yaml:"items"`
	Total       string     `yaml:"total"`
	Status      string     `yaml:"status"`
	AssignedAt  timestamp  `yaml:"assigned_at"`
	PickedUpAt  *timestamp `yaml:"picked_up_at"`
	InTransitAt *timestamp `yaml:"in_transit_at"`
	DeliveredAt *timestamp `yaml:"delivered_at"`
}

// Default returns the embedded deliveries.
func Default() ([]Record, error) {
	return Parse(defaultDeliveries)
}

// ReadFile parses a seed file.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Duplicate ids and records violating the order invariants are
// rejected with the offending id in the error.
func Parse(data []byte) ([]Record, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	records := make([]Record, 0, len(f.Deliveries))
	seen := make(map[string]struct{}, len(f.Deliveries))
	for i, d := range f.Deliveries {
		record, err := d.record()
		if err != nil {
			return nil, fmt.Errorf("delivery %d (%s): %w", i, d.ID, err)
		}
		id := record.Order.ID().String()
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("delivery %d: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}
		records = append(records, record)
	}
	return records, nil
}

// Orders returns the orders of records.
func Orders(records []Record) []*order.Order {
	orders := make([]*order.Order, len(records))
	for i, r := range records {
		orders[i] = r.Order
	}
	return orders
}

// Store writes records and their history in one transaction.
func Store(ctx context.Context, uow ports.UnitOfWork, records []Record) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	for _, r := range records {
		if err := uow.OrderRepository().Add(ctx, r.Order); err != nil {
			return fmt.Errorf("seed %s: %w", r.Order.ID(), err)
		}
		for _, change := range r.History {
			if err := uow.TransitionRepository().Add(ctx, change); err != nil {
				return fmt.Errorf("seed %s history: %w", r.Order.ID(), err)
			}
		}
	}
	return uow.Commit(ctx)
}

func (d delivery) record() (Record, error) {
	target, err := order.ParseStatus(d.Status)
	if err != nil {
		return Record{}, err
	}
	if d.AssignedAt.IsZero() {
		return Record{}, errors.New("assigned_at is required")
	}

	id, err := kernel.OrderIDFromString(d.ID)
	if err != nil {
		return Record{}, err
	}
	customer, err := kernel.NewContact(d.Customer.Name, d.Customer.Address, d.Customer.Phone)
	if err != nil {
		return Record{}, err
	}
	total, err := kernel.MoneyFromString(d.Total)
	if err != nil {
		return Record{}, err
	}
	items := make([]order.Item, 0, len(d.Items))
	for _, it := range d.Items {
		item, err := order.NewItem(it.ID, it.Name, it.Quantity)
		if err != nil {
			return Record{}, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(id, customer, items, total, d.AssignedAt.Time)
	if err != nil {
		return Record{}, err
	}

	history := []order.StatusChange{{OrderID: id, From: order.Unknown, To: order.Assigned, At: o.AssignedAt()}}
	stamps := d.stamps()
	for o.Status() != target {
		next, ok := o.Status().Next()
		if !ok {
			break
		}
		at, ok := stampFrom(stamps, next)
		if !ok {
			return Record{}, fmt.Errorf("status %s needs a timestamp for %s", target, next)
		}
		change, err := o.Advance(next, at)
		if err != nil {
			return Record{}, err
		}
		history = append(history, change)
	}
	return Record{Order: o, History: history}, nil
}

func (d delivery) stamps() map[order.Status]time.Time {
	stamps := make(map[order.Status]time.Time, 3)
	for status, ts := range map[order.Status]*timestamp{
		order.PickedUp:  d.PickedUpAt,
		order.InTransit: d.InTransitAt,
		order.Delivered: d.DeliveredAt,
	} {
		if ts != nil {
			stamps[status] = ts.Time
		}
	}
	return stamps
}

// stampFrom returns the stamp of status, or the earliest later stamp when the source
// skipped it.
func stampFrom(stamps map[order.Status]time.Time, status order.Status) (time.Time, bool) {
	for s := status; ; {
		if at, ok := stamps[s]; ok {
			return at, true
		}
		next, ok := s.Next()
		if !ok {
			return time.Time{}, false
		}
		s = next
	}
}
