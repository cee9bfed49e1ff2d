package statemachine

import (
	"errors"
	"strings"

	"food-ordering-api/models"
)

// Actor names who is asking for a status change
type Actor string

const (
	ActorAdmin Actor = "admin"
	ActorUser  Actor = "user"
)

// ErrNotCancellable is returned when an order has left the Pending stage.
var ErrNotCancellable = errors.New("order can only be cancelled while Pending")

// Stages is the tracker vocabulary in the order an order moves through it.
var Stages = []models.OrderStatus{
	models.StatusPending,
	models.StatusAccepted,
	models.StatusPreparing,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition.
// The admin moves an order forward one stage at a time.
var validTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusAccepted, Actor: ActorAdmin},
	{From: models.StatusAccepted, To: models.StatusPreparing, Actor: ActorAdmin},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// Parse maps a free-form status string onto the canonical vocabulary.
// Matching ignores case, spaces, dashes and underscores so "out for delivery"
// and "OUT_FOR_DELIVERY" both resolve to OutForDelivery.
func Parse(s string) (models.OrderStatus, bool) {
	norm := normalize(s)
	for _, st := range Stages {
		if normalize(string(st)) == norm {
			return st, true
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s)))
}

// IsValid reports whether status belongs to the tracker vocabulary.
func IsValid(status models.OrderStatus) bool {
	return StageIndex(status) >= 0
}

// StageIndex returns the position of status in Stages, or -1.
func StageIndex(status models.OrderStatus) int {
	for i, st := range Stages {
		if st == status {
			return i
		}
	}
	return -1
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if !IsValid(to) {
		return errors.New("unknown order status '" + string(to) + "'. Valid statuses are: " + join(Stages))
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

// CanCancel reports whether an order in the given status may still be
// withdrawn by its owner.
func CanCancel(status models.OrderStatus) error {
	if status != models.StatusPending {
		return ErrNotCancellable
	}
	return nil
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	return join(nexts)
}

func join(statuses []models.OrderStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
