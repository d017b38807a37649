package order

import "fmt"

// Badge is the visual tone of a status badge.
type Badge string

const (
	BadgeInfo    Badge = "info"
	BadgeWarning Badge = "warning"
	BadgePrimary Badge = "primary"
	BadgeSuccess Badge = "success"
)

// Icon names the glyph rendered next to a status or action.
type Icon string

const (
	IconClock      Icon = "clock"
	IconTruck      Icon = "truck"
	IconCheck      Icon = "check"
	IconCheckCheck Icon = "check-check"
)

// Descriptor is the display data for a status. Next is Unknown and HasNext is false
// for the terminal status, in which case the action fields are empty.
type Descriptor struct {
	Status    Status
	Label     string
	Badge     Badge
	Icon      Icon
	Next      Status
	HasNext   bool
	NextLabel string
	NextIcon  Icon
}

// Describe returns the display data for s. Unknown and invalid statuses get an empty
// descriptor.
func (s Status) Describe() Descriptor {
	switch s {
	case Assigned:
		return Descriptor{
			Status: s, Label: "Assigned to you", Badge: BadgeInfo, Icon: IconClock,
			Next: PickedUp, HasNext: true, NextLabel: "Mark as Picked Up", NextIcon: IconTruck,
		}
	case PickedUp:
		return Descriptor{
			Status: s, Label: "Picked Up", Badge: BadgeWarning, Icon: IconTruck,
			Next: InTransit, HasNext: true, NextLabel: "Mark as In Transit", NextIcon: IconCheck,
		}
	case InTransit:
		return Descriptor{
			Status: s, Label: "In Transit", Badge: BadgePrimary, Icon: IconTruck,
			Next: Delivered, HasNext: true, NextLabel: "Mark as Delivered", NextIcon: IconCheck,
		}
	case Delivered:
		return Descriptor{Status: s, Label: "Delivered", Badge: BadgeSuccess, Icon: IconCheckCheck}
	case Unknown:
		return Descriptor{}
	default:
		return Descriptor{}
	}
}

// ActiveTabLabel is the heading of the active deliveries tab.
func ActiveTabLabel(count int) string {
	return fmt.Sprintf("Active Deliveries (%d)", count)
}

// CompletedTabLabel is the heading of the completed deliveries tab.
func CompletedTabLabel(count int) string {
	return fmt.Sprintf("Completed (%d)", count)
}
