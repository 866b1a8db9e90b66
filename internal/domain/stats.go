package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FeeStatsInput is the settled state the aggregator reads.
type FeeStatsInput struct {
	Students          []Student
	Classes           []Class
	ActiveAssignments []ClassFeeAssignment
	Categories        []FeeCategory
	// LatestSnapshots is keyed by category id.
	LatestSnapshots map[uuid.UUID]CategorySnapshot
	Payments        []Payment
}

// ClassFeeStats is the per-class slice of FeeStats.
type ClassFeeStats struct {
	ClassID        uuid.UUID       `json:"class_id"`
	ClassName      string          `json:"class_name"`
	StudentCount   int             `json:"student_count"`
	PaidCount      int             `json:"paid_count"`
	PartialCount   int             `json:"partial_count"`
	UnpaidCount    int             `json:"unpaid_count"`
	Expected       decimal.Decimal `json:"expected"`
	Collected      decimal.Decimal `json:"collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	CollectionRate decimal.Decimal `json:"collection_rate"`
}

// FeeStats is a read-only rollup of expected and collected fees.
type FeeStats struct {
	TotalStudents      int               `json:"total_students"`
	PaidCount          int               `json:"paid_count"`
	PartialCount       int               `json:"partial_count"`
	UnpaidCount        int               `json:"unpaid_count"`
	NoFeeAssignedCount int               `json:"no_fee_assigned_count"`
	TotalExpected      decimal.Decimal   `json:"total_expected"`
	TotalCollected     decimal.Decimal   `json:"total_collected"`
	TotalOutstanding   decimal.Decimal   `json:"total_outstanding"`
	CollectionRate     decimal.Decimal   `json:"collection_rate"`
	ByClass            []ClassFeeStats   `json:"by_class"`
	ByMethod           []MethodBreakdown `json:"by_method"`
}

// CollectionRate returns collected as a percentage of expected, rounded to
// two places. Zero expected yields zero.
func CollectionRate(collected, expected decimal.Decimal) decimal.Decimal {
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return collected.Div(expected).Mul(hundred).Round(2)
}

// AggregateFeeStats resolves each student's expected fee through the class's
// active assignment (category total, falling back to the category's latest
// snapshot) and buckets students by how much of it they have paid.
func AggregateFeeStats(in FeeStatsInput) *FeeStats {
	categoryTotals := make(map[uuid.UUID]decimal.Decimal, len(in.Categories))
	for i := range in.Categories {
		categoryTotals[in.Categories[i].ID] = in.Categories[i].Total()
	}
	expectedByClass := make(map[uuid.UUID]decimal.Decimal, len(in.ActiveAssignments))
	for _, a := range in.ActiveAssignments {
		if !a.IsActive {
			continue
		}
		if total, ok := categoryTotals[a.CategoryID]; ok {
			expectedByClass[a.ClassID] = total
		} else if snap, ok := in.LatestSnapshots[a.CategoryID]; ok {
			expectedByClass[a.ClassID] = snap.TotalAmount
		}
	}
	classNames := make(map[uuid.UUID]string, len(in.Classes))
	for _, c := range in.Classes {
		classNames[c.ID] = c.Name
	}

	studentSet := make(map[uuid.UUID]bool, len(in.Students))
	for _, s := range in.Students {
		studentSet[s.ID] = true
	}
	paidByStudent := make(map[uuid.UUID]decimal.Decimal, len(in.Students))
	methods := map[string]*MethodBreakdown{}
	for _, p := range in.Payments {
		if !studentSet[p.StudentID] {
			continue
		}
		paidByStudent[p.StudentID] = paidByStudent[p.StudentID].Add(p.Amount)
		m := NormalizeMethod(p.Method)
		b, ok := methods[m]
		if !ok {
			b = &MethodBreakdown{Method: m, Total: decimal.Zero}
			methods[m] = b
		}
		b.Count++
		b.Total = b.Total.Add(p.Amount)
	}

	stats := &FeeStats{
		TotalStudents:    len(in.Students),
		TotalExpected:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	perClass := map[uuid.UUID]*ClassFeeStats{}
	for _, s := range in.Students {
		cs, ok := perClass[s.ClassID]
		if !ok {
			cs = &ClassFeeStats{
				ClassID:     s.ClassID,
				ClassName:   classNames[s.ClassID],
				Expected:    decimal.Zero,
				Collected:   decimal.Zero,
				Outstanding: decimal.Zero,
			}
			perClass[s.ClassID] = cs
		}
		cs.StudentCount++

		paid := paidByStudent[s.ID]
		cs.Collected = cs.Collected.Add(paid)
		stats.TotalCollected = stats.TotalCollected.Add(paid)

		expected, assigned := expectedByClass[s.ClassID]
		if !assigned {
			stats.NoFeeAssignedCount++
			continue
		}
		outstanding := decimal.Max(decimal.Zero, expected.Sub(paid))
		cs.Expected = cs.Expected.Add(expected)
		cs.Outstanding = cs.Outstanding.Add(outstanding)
		stats.TotalExpected = stats.TotalExpected.Add(expected)
		stats.TotalOutstanding = stats.TotalOutstanding.Add(outstanding)

		switch DeriveStatus(paid, expected) {
		case ChallanStatusPaid:
			stats.PaidCount++
			cs.PaidCount++
		case ChallanStatusPartial:
			stats.PartialCount++
			cs.PartialCount++
		default:
			stats.UnpaidCount++
			cs.UnpaidCount++
		}
	}
	stats.CollectionRate = CollectionRate(stats.TotalCollected, stats.TotalExpected)

	stats.ByClass = make([]ClassFeeStats, 0, len(perClass))
	for _, cs := range perClass {
		cs.CollectionRate = CollectionRate(cs.Collected, cs.Expected)
		stats.ByClass = append(stats.ByClass, *cs)
	}
	sort.Slice(stats.ByClass, func(i, j int) bool {
		if stats.ByClass[i].ClassName == stats.ByClass[j].ClassName {
			return stats.ByClass[i].ClassID.String() < stats.ByClass[j].ClassID.String()
		}
		return stats.ByClass[i].ClassName < stats.ByClass[j].ClassName
	})

	stats.ByMethod = make([]MethodBreakdown, 0, len(methods))
	for _, b := range methods {
		stats.ByMethod = append(stats.ByMethod, *b)
	}
	sort.Slice(stats.ByMethod, func(i, j int) bool { return stats.ByMethod[i].Method < stats.ByMethod[j].Method })
	return stats
}
