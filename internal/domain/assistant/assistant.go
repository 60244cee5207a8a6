// Package assistant implementa el asistente de comandos del shelter: una
// gramática cerrada sobre el inventario, sin matching difuso. O el mensaje
// empieza con un comando conocido, o la respuesta es la ayuda. Determinista
// a propósito: mismo inventario + mismo comando = misma respuesta.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption-network/internal/domain/inventory"
)

// Comandos reconocidos. Todo lo demás cae en help.
const (
	CmdStats     = "stats"
	CmdAvailable = "available"
	CmdFind      = "find"
	CmdSpecies   = "species"
	CmdGoodWith  = "good-with"
	CmdActivity  = "activity"
	CmdHelp      = "help"
)

const helpText = `Available commands:
  stats               shelter totals by status and species
  available           list pets available for adoption
  find <name>         search pets by name
  species <dog|cat>   list available pets of one species
  good-with kids      list available pets good with kids
  activity            recent shelter activity
  help                this message`

// Reply es la respuesta estructurada del asistente. Command es el comando
// efectivamente ejecutado ("help" cuando la entrada no matchea).
type Reply struct {
	Command string   `json:"command"`
	Message string   `json:"message"`
	Results []string `json:"results,omitempty"`
}

type Service struct {
	inv *inventory.Service
}

func NewService(inv *inventory.Service) *Service {
	return &Service{inv: inv}
}

// Handle ejecuta un mensaje contra la gramática. La entrada se normaliza a
// minúsculas y espacios simples; el argumento de find conserva su forma
// original para el matching por nombre.
func (s *Service) Handle(ctx context.Context, input string) (Reply, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return helpReply(), nil
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case CmdStats:
		return s.stats(ctx)
	case CmdAvailable:
		return s.available(ctx)
	case CmdFind:
		if len(args) == 0 {
			return Reply{Command: CmdFind, Message: "Usage: find <name>"}, nil
		}
		return s.find(ctx, strings.Join(args, " "))
	case CmdSpecies:
		if len(args) == 0 {
			return Reply{Command: CmdSpecies, Message: "Usage: species <dog|cat>"}, nil
		}
		return s.bySpecies(ctx, strings.ToLower(args[0]))
	case CmdGoodWith:
		if len(args) == 0 || strings.ToLower(args[0]) != "kids" {
			return Reply{Command: CmdGoodWith, Message: "Usage: good-with kids"}, nil
		}
		return s.goodWithKids(ctx)
	case CmdActivity:
		return s.activity(ctx)
	case CmdHelp:
		return helpReply(), nil
	default:
		return helpReply(), nil
	}
}

func helpReply() Reply {
	return Reply{Command: CmdHelp, Message: helpText}
}

func (s *Service) stats(ctx context.Context) (Reply, error) {
	st, err := s.inv.Stats(ctx)
	if err != nil {
		return Reply{}, err
	}
	msg := fmt.Sprintf("%d pets in the shelter: %d available, %d pending, %d adopted. %d dogs and %d cats.",
		st.Total, st.Available, st.Pending, st.Adopted, st.Dogs, st.Cats)
	return Reply{Command: CmdStats, Message: msg}, nil
}

func (s *Service) available(ctx context.Context) (Reply, error) {
	items, err := s.inv.ListProjections(ctx, inventory.Filter{Status: inventory.StatusAvailable})
	if err != nil {
		return Reply{}, err
	}
	if len(items) == 0 {
		return Reply{Command: CmdAvailable, Message: "No pets are available right now."}, nil
	}
	return Reply{
		Command: CmdAvailable,
		Message: fmt.Sprintf("%d pets available for adoption:", len(items)),
		Results: describeAll(items),
	}, nil
}

func (s *Service) find(ctx context.Context, name string) (Reply, error) {
	animals, err := s.inv.SearchByName(ctx, name)
	if err != nil {
		return Reply{}, err
	}
	if len(animals) == 0 {
		return Reply{Command: CmdFind, Message: fmt.Sprintf("No pets found matching %q.", name)}, nil
	}
	results := make([]string, 0, len(animals))
	for _, a := range animals {
		results = append(results, fmt.Sprintf("%s (%s, %s) - %s", a.Name, a.Species, a.Breed, a.Status))
	}
	return Reply{
		Command: CmdFind,
		Message: fmt.Sprintf("Found %d pets matching %q:", len(animals), name),
		Results: results,
	}, nil
}

func (s *Service) bySpecies(ctx context.Context, species string) (Reply, error) {
	if species != "dog" && species != "cat" {
		return Reply{Command: CmdSpecies, Message: "Usage: species <dog|cat>"}, nil
	}
	items, err := s.inv.ListProjections(ctx, inventory.Filter{
		Status:  inventory.StatusAvailable,
		Species: inventory.Species(species),
	})
	if err != nil {
		return Reply{}, err
	}
	if len(items) == 0 {
		return Reply{Command: CmdSpecies, Message: fmt.Sprintf("No %ss available right now.", species)}, nil
	}
	return Reply{
		Command: CmdSpecies,
		Message: fmt.Sprintf("%d %ss available:", len(items), species),
		Results: describeAll(items),
	}, nil
}

func (s *Service) goodWithKids(ctx context.Context) (Reply, error) {
	items, err := s.inv.ListProjections(ctx, inventory.Filter{Status: inventory.StatusAvailable})
	if err != nil {
		return Reply{}, err
	}
	var matches []inventory.Projection
	for _, p := range items {
		if p.GoodWithKids {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return Reply{Command: CmdGoodWith, Message: "No available pets are marked as good with kids."}, nil
	}
	return Reply{
		Command: CmdGoodWith,
		Message: fmt.Sprintf("%d available pets are good with kids:", len(matches)),
		Results: describeAll(matches),
	}, nil
}

func (s *Service) activity(ctx context.Context) (Reply, error) {
	entries, err := s.inv.RecentActivity(ctx, 10)
	if err != nil {
		return Reply{}, err
	}
	if len(entries) == 0 {
		return Reply{Command: CmdActivity, Message: "No recent activity."}, nil
	}
	results := make([]string, 0, len(entries))
	for _, e := range entries {
		results = append(results, fmt.Sprintf("[%s] %s", e.Timestamp.Format("2006-01-02 15:04"), e.Description))
	}
	return Reply{
		Command: CmdActivity,
		Message: fmt.Sprintf("Last %d events:", len(entries)),
		Results: results,
	}, nil
}

func describeAll(items []inventory.Projection) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, fmt.Sprintf("%s (%s, %s, %d years)", p.Name, p.Species, p.Breed, p.Age))
	}
	return out
}
