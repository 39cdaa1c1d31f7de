package statemachine

import (
	"fmt"
	"strings"

	"srburger-api/models"
	"srburger-api/order"
)

// Transition is a valid status change for one kind of fulfillment
type Transition struct {
	From models.OrderStatus    `json:"from"`
	To   models.OrderStatus    `json:"to"`
	Flow order.FulfillmentType `json:"flow"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Both flows start by the restaurant confirming or cancelling
	{From: models.StatusPending, To: models.StatusConfirmed, Flow: order.FulfillmentDelivery},
	{From: models.StatusPending, To: models.StatusCancelled, Flow: order.FulfillmentDelivery},
	{From: models.StatusPending, To: models.StatusConfirmed, Flow: order.FulfillmentPickup},
	{From: models.StatusPending, To: models.StatusCancelled, Flow: order.FulfillmentPickup},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Flow: order.FulfillmentDelivery},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Flow: order.FulfillmentPickup},
	// Delivery: the driver leaves, then arrives
	{From: models.StatusConfirmed, To: models.StatusOnTheWay, Flow: order.FulfillmentDelivery},
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Flow: order.FulfillmentDelivery},
	// Pickup: the order waits at the counter
	{From: models.StatusConfirmed, To: models.StatusReadyForPickup, Flow: order.FulfillmentPickup},
	{From: models.StatusReadyForPickup, To: models.StatusPickedUp, Flow: order.FulfillmentPickup},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Flow order.FulfillmentType
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Flow}] = true
	}
	return m
}()

// ValidTransitionsFrom returns the next states reachable from status in a flow
func ValidTransitionsFrom(status models.OrderStatus, flow order.FulfillmentType) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Flow == flow {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks whether an order of the given flow may move from one state to another
func CanTransition(from, to models.OrderStatus, flow order.FulfillmentType) error {
	if transitionMap[transitionKey{From: from, To: to, Flow: flow}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s is not allowed for %s orders. Valid transitions from %s are: %s",
		from, to, flow, from, describeValidFrom(from, flow))
}

// Terminal reports whether no transition leaves status
func Terminal(status models.OrderStatus, flow order.FulfillmentType) bool {
	return len(ValidTransitionsFrom(status, flow)) == 0
}

func describeValidFrom(status models.OrderStatus, flow order.FulfillmentType) string {
	nexts := ValidTransitionsFrom(status, flow)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
