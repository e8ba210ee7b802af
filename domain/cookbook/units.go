package cookbook

import (
	"fmt"
	"strings"
)

// Unit is the unit of a Quantity.
type Unit string

const (
	UnitPiece      Unit = "piece"
	UnitTeaspoon   Unit = "teaspoon"
	UnitTablespoon Unit = "tablespoon"
	UnitDeciliter  Unit = "deciliter"
	UnitLiter      Unit = "liter"
	UnitGram       Unit = "gram"
	UnitHectogram  Unit = "hectogram"
	UnitKilogram   Unit = "kilogram"
	UnitNotDefined Unit = "not defined"
)

var units = []Unit{
	UnitPiece, UnitTeaspoon, UnitTablespoon, UnitDeciliter, UnitLiter,
	UnitGram, UnitHectogram, UnitKilogram, UnitNotDefined,
}

// ParseUnit parses a unit name. The empty string parses as UnitNotDefined.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return UnitNotDefined, nil
	}
	for _, u := range units {
		if strings.EqualFold(s, string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidValue, s)
}

// UnmarshalText accepts any spelling ParseUnit accepts.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// WeekDay is a day of the week, Monday first.
type WeekDay string

const (
	Monday    WeekDay = "Monday"
	Tuesday   WeekDay = "Tuesday"
	Wednesday WeekDay = "Wednesday"
	Thursday  WeekDay = "Thursday"
	Friday    WeekDay = "Friday"
	Saturday  WeekDay = "Saturday"
	Sunday    WeekDay = "Sunday"
)

var weekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekDay parses a week day name, ignoring case.
func ParseWeekDay(s string) (WeekDay, error) {
	for _, d := range weekDays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown week day %q", ErrInvalidValue, s)
}

// UnmarshalText accepts any spelling ParseWeekDay accepts.
func (d *WeekDay) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
