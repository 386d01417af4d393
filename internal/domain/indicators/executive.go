package indicators

import (
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/internal/domain/scoring"
)

func executiveKPIs(x schema.ExecActivity, col *collector) ExecutiveKPIs {
	out := ExecutiveKPIs{ActivitiesCount: x.Rows}
	if x.Rows == 0 {
		return out
	}
	out.TotalStrategicCost = scoring.Sum(col.numbers(schema.ExecutiveActivity, x.Cost))
	return out
}
