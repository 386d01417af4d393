package indicators

import (
	"sort"
	"strings"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/schema"
)

// DefaultWhaleLimit is the number of whales returned when no limit is given.
const DefaultWhaleLimit = 5

// whaleTier is the pursuit tier that marks a whale.
const whaleTier = "TIER 1"

// Whale is a Tier 1 pursuit ranked by perceived annual value.
type Whale struct {
	Account       string            `json:"account"`
	AnnualAMO     float64           `json:"annual_amo"`
	ActiveValue   float64           `json:"active_value"`
	Tier          string            `json:"tier"`
	Horizon       string            `json:"horizon"`
	PipelineScore float64           `json:"pipeline_score"`
	CreatedDate   string            `json:"created_date"`
	Details       map[string]string `json:"details"`
}

// TopWhales returns up to limit Tier 1 pipeline entries ordered by perceived
// annual value, largest first; equal values keep sheet order.
func TopWhales(tables model.TableSet, limit int) []Whale {
	if limit <= 0 {
		limit = DefaultWhaleLimit
	}
	pv := schema.BindPipeline(tables.Get(schema.Pipeline))
	if pv.Rows == 0 || !pv.Tier.Present || !pv.Account.Present {
		return []Whale{}
	}

	whales := make([]Whale, 0)
	for i := 0; i < pv.Rows; i++ {
		if strings.ToUpper(pv.Tier.Cell(i)) != whaleTier {
			continue
		}
		w := Whale{
			Account:       pv.Account.Cell(i),
			AnnualAMO:     normalize.Parse(pv.AnnualAMO.Cell(i)).Value,
			ActiveValue:   normalize.Parse(pv.ActiveWork.Cell(i)).Value,
			Tier:          pv.Tier.Cell(i),
			Horizon:       pv.Horizon.Cell(i),
			PipelineScore: normalize.Parse(pv.Score.Cell(i)).Value,
			CreatedDate:   pv.CreatedDate.Cell(i),
			Details:       make(map[string]string, len(pv.Details)),
		}
		for _, c := range pv.Details {
			w.Details[c.Header] = c.Cell(i)
		}
		whales = append(whales, w)
	}

	sort.SliceStable(whales, func(a, b int) bool {
		return whales[a].AnnualAMO > whales[b].AnnualAMO
	})
	if len(whales) > limit {
		whales = whales[:limit]
	}
	return whales
}
