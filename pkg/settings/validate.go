package settings

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/units"
)

// Upper bounds, in ounces, on what an edit may store.
const (
	MaxGoal        = 1000
	MaxAmount      = 1000
	MaxDailyIntake = 10000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterAlias("units", "oneof=imperial metric")
	v.RegisterAlias("goalmax", fmt.Sprintf("lte=%d", MaxGoal))
	v.RegisterAlias("amountmax", fmt.Sprintf("lte=%d", MaxAmount))
	v.RegisterAlias("intakemax", fmt.Sprintf("lte=%d", MaxDailyIntake))
	return v
}

// Each input carries the value as typed and its conversion to ounces; the
// lower bound applies to the former and the upper bound to the latter.
type goalInput struct {
	Goal       int          `validate:"gt=0"`
	GoalOunces int          `validate:"goalmax"`
	Units      units.System `validate:"units"`
}

type amountInput struct {
	Amount       int          `validate:"gt=0"`
	AmountOunces int          `validate:"amountmax"`
	Units        units.System `validate:"units"`
}

type intakeInput struct {
	Intake       int          `validate:"gte=0"`
	IntakeOunces int          `validate:"intakemax"`
	Units        units.System `validate:"units"`
}

type emojiInput struct {
	Emoji string `validate:"required,max=16"`
}

// messages are the user-facing texts, keyed by field and failed tag.
var messages = map[string]string{
	"Goal.gt":                "Please enter a goal greater than zero.",
	"Amount.gt":              "Please enter an amount greater than zero.",
	"Intake.gte":             "Intake cannot be negative.",
	"GoalOunces.goalmax":     fmt.Sprintf("Goal cannot be more than %d oz.", MaxGoal),
	"AmountOunces.amountmax": fmt.Sprintf("A single entry cannot be more than %d oz.", MaxAmount),
	"IntakeOunces.intakemax": fmt.Sprintf("Intake cannot be more than %d oz a day.", MaxDailyIntake),
	"Units.units":            "Units must be imperial or metric.",
	"Emoji.required":         "Please choose an emoji.",
	"Emoji.max":              "Emoji must be at most 16 characters.",
}

// check validates input and converts the first failure into an
// INVALID_INPUT error with a message fit for display.
func check(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !stderrors.As(err, &vErrs) || len(vErrs) == 0 {
		return errors.Wrap(err, errors.ErrCodeInternal, "validation failed")
	}
	first := vErrs[0]
	msg, ok := messages[first.Field()+"."+first.Tag()]
	if !ok {
		msg = fmt.Sprintf("Invalid %s.", strings.ToLower(first.Field()))
	}
	field := strings.ToLower(strings.TrimSuffix(first.Field(), "Ounces"))
	return errors.InvalidInput(field, msg)
}

// ParseAmount parses a whole number typed by the user.
func ParseAmount(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.InvalidInput("amount", fmt.Sprintf("%q is not a whole number.", strings.TrimSpace(input)))
	}
	return n, nil
}

var quantityRe = regexp.MustCompile(`^\s*(-?\d+)\s*([a-zA-Z]*)\s*$`)

// Quantity is a number with the unit system it was entered in.
type Quantity struct {
	Value int
	Units units.System
}

// Ounces converts the quantity to the stored unit.
func (q Quantity) Ounces() int {
	return units.ToOunces(q.Value, q.Units)
}

// ParseQuantity parses input such as "16", "16oz" or "500 ml". A bare
// number is read in the fallback system.
func ParseQuantity(input string, fallback units.System) (Quantity, error) {
	m := quantityRe.FindStringSubmatch(input)
	if m == nil {
		return Quantity{}, errors.InvalidInput("amount", fmt.Sprintf("%q is not an amount. Try 8, 8oz or 250ml.", strings.TrimSpace(input)))
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Quantity{}, errors.InvalidInput("amount", fmt.Sprintf("%q is out of range.", m[1]))
	}
	system := fallback
	if m[2] != "" {
		system, err = units.Parse(m[2])
		if err != nil {
			return Quantity{}, errors.InvalidInput("amount", fmt.Sprintf("Unknown unit %q. Use oz or ml.", m[2]))
		}
	}
	return Quantity{Value: n, Units: system}, nil
}
