package view

import (
	"fmt"

	"github.com/strongcode/gymbook/pkg/domain"
)

// ActionKind identifies what a fragment's action does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionBook
)

// Action is a per-item command bound to a fragment.
type Action struct {
	Kind    ActionKind
	ClassID int
}

// Fragment is one rendered record. Title and Body hold raw server text;
// encoders are responsible for making them safe for their output.
type Fragment struct {
	Title  string
	Body   string
	Action *Action
}

// ClassFragments builds one fragment per class, each bound to a book action.
func ClassFragments(classes []domain.Class) []Fragment {
	out := make([]Fragment, 0, len(classes))
	for _, c := range classes {
		out = append(out, Fragment{
			Title:  c.Name,
			Body:   c.Description,
			Action: &Action{Kind: ActionBook, ClassID: c.ID},
		})
	}
	return out
}

func GymFragments(gyms []domain.Gym) []Fragment {
	out := make([]Fragment, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, Fragment{Title: g.Name, Body: g.Address})
	}
	return out
}

func BookingFragments(bookings []domain.Booking) []Fragment {
	out := make([]Fragment, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Fragment{Title: fmt.Sprintf("Booking #%d", b.ID), Body: b.Status})
	}
	return out
}
