package reward

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const dateLayout = "2006-01-02"

// BonusActiveOn menentukan apakah bonus_points venue berlaku pada hari
// tertentu. Rule kosong berarti bonus berlaku setiap hari. Rule memakai
// format RRULE (mis. "FREQ=WEEKLY;BYDAY=SA,SU").
func BonusActiveOn(rule, ruleStart string, day time.Time) (bool, error) {
	if rule == "" {
		return true, nil
	}

	rOption, err := rrule.StrToROption(rule)
	if err != nil {
		return false, fmt.Errorf("bonus_rule tidak valid: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	if ruleStart != "" {
		parsed, perr := time.ParseInLocation(dateLayout, ruleStart, day.Location())
		if perr == nil {
			start = parsed
		}
	}
	rOption.Dtstart = start

	rr, err := rrule.NewRRule(*rOption)
	if err != nil {
		return false, fmt.Errorf("bonus_rule tidak valid: %w", err)
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	ruleSet := rrule.Set{}
	ruleSet.RRule(rr)

	return len(ruleSet.Between(dayStart, dayEnd, true)) > 0, nil
}

// UpcomingBonusDays meng-expand rule menjadi daftar tanggal bonus dalam
// rentang [from, until], untuk preview admin.
func UpcomingBonusDays(rule, ruleStart string, from, until time.Time) ([]string, error) {
	if rule == "" {
		return nil, nil
	}

	rOption, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("bonus_rule tidak valid: %w", err)
	}

	start := from
	if ruleStart != "" {
		parsed, perr := time.ParseInLocation(dateLayout, ruleStart, from.Location())
		if perr == nil {
			start = parsed
		}
	}
	rOption.Dtstart = start

	rr, err := rrule.NewRRule(*rOption)
	if err != nil {
		return nil, fmt.Errorf("bonus_rule tidak valid: %w", err)
	}

	ruleSet := rrule.Set{}
	ruleSet.RRule(rr)

	var days []string
	for _, instance := range ruleSet.Between(from, until, true) {
		days = append(days, instance.Format(dateLayout))
	}
	return days, nil
}
