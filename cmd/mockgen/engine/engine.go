package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"crm-metrics/internal/metrics"
	"crm-metrics/internal/snapshot"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // "uniform" or "weibull"
	Count        int
	Agents       int
	Companies    int
	Seed         uint64
	Now          time.Time
}

var (
	channels      = []string{"Email", "Phone", "Viber", "Walk-in", "Website"}
	customerTypes = []string{"Retail", "Corporate", "Government", "Reseller"}
	sources       = []string{"Inbound", "Outbound", "Referral"}
	wrapUps       = []string{"PO Received", "No Stocks", "Assisted", "Quotation Sent", "Item Not Carried", "For Site Visit"}
	firstNames    = []string{"Ana", "Ben", "Carla", "Dino", "Ella", "Franco", "Gia", "Hugo", "Ivy", "Jun"}
	lastNames     = []string{"Reyes", "Santos", "Cruz", "Bautista", "Garcia", "Mendoza", "Torres", "Villanueva"}
)

// Generate builds a synthetic snapshot. Activities arrive about one per hour,
// the last one at cfg.Now.
func Generate(cfg GeneratorConfig) *snapshot.Snapshot {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	cfg.Agents = max(cfg.Agents, 2)
	cfg.Companies = max(cfg.Companies, 1)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	// The first two agents double as managers.
	agents := lo.Times(cfg.Agents, func(i int) metrics.AgentRecord {
		return metrics.AgentRecord{
			ReferenceID: fmt.Sprintf("AG-%03d", i+1),
			Firstname:   firstNames[i%len(firstNames)],
			Lastname:    lastNames[(i/len(firstNames)+i)%len(lastNames)],
		}
	})
	managers := agents[:2]
	companies := lo.Times(cfg.Companies, func(i int) metrics.CompanyRecord {
		return metrics.CompanyRecord{
			AccountReferenceNumber: fmt.Sprintf("CUST-%04d", i+1),
			CompanyName:            fmt.Sprintf("Company %d Trading", i+1),
		}
	})

	start := cfg.Now.Add(-time.Duration(cfg.Count) * time.Hour)
	activities := make([]metrics.ActivityRecord, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		progress := float64(i) / float64(max(cfg.Count, 1))
		created := start.Add(time.Duration(i+1) * time.Hour)
		agent := agents[rng.IntN(len(agents))]
		manager := managers[rng.IntN(len(managers))]

		convertRate := 0.35
		if cfg.Scenario == "drift" {
			convertRate = 0.45 - 0.3*progress // 45% -> 15%
		}

		a := metrics.ActivityRecord{
			ReferenceID:            agent.ReferenceID,
			TSM:                    manager.ReferenceID,
			AccountReferenceNumber: companies[rng.IntN(len(companies))].AccountReferenceNumber,
			TicketReferenceNumber:  fmt.Sprintf("TKT-%06d", i+1),
			Channel:                pick(rng, channels),
			CustomerType:           pick(rng, customerTypes),
			Source:                 pick(rng, sources),
			CustomerStatus:         metrics.CustomerStatuses[rng.IntN(len(metrics.CustomerStatuses))].Title(),
			DateCreated:            created.Format(time.RFC3339),
		}

		if rng.Float64() < 0.8 {
			a.Traffic = "Sales"
		} else {
			a.Traffic = "Non-Sales"
		}

		received := created.Add(-time.Duration(5+rng.IntN(60)) * time.Minute)
		a.TicketReceived = received.Format(time.RFC3339)
		a.TicketEndorsed = received.Add(time.Duration(1+rng.IntN(30)) * time.Minute).Format(time.RFC3339)

		switch r := rng.Float64(); {
		case a.Traffic == "Sales" && r < convertRate:
			a.Status = "Converted into Sales"
			amount := 500 + rng.Float64()*49500
			a.SOAmount = strconv.FormatFloat(math.Round(amount*100)/100, 'f', 2, 64)
			a.QtySold = strconv.Itoa(1 + rng.IntN(20))
		case r < 0.75:
			a.Status = "Closed"
			a.WrapUp = pick(rng, wrapUps)
			handling := handlingMinutes(rng, cfg.Distribution)
			a.DateUpdated = received.Add(time.Duration(handling * float64(time.Minute))).Format(time.RFC3339)
		default:
			a.Status = "Open"
		}

		if cfg.Scenario == "chaos" {
			corrupt(rng, &a)
		}
		activities = append(activities, a)
	}

	return &snapshot.Snapshot{
		ID:         snapshot.DefaultID,
		RunID:      uuid.NewString(),
		FetchedAt:  cfg.Now,
		Activities: activities,
		Companies:  companies,
		Agents:     agents,
	}
}

// corrupt injects the data-quality problems seen in real exports.
func corrupt(rng *rand.Rand, a *metrics.ActivityRecord) {
	switch rng.IntN(10) {
	case 0:
		a.ReferenceID = "AG-GONE" // unresolved agent
	case 1:
		a.AccountReferenceNumber = "" // missing company
	case 2:
		a.TSM, a.Manager = "", a.TSM // legacy manager field only
	case 3:
		if a.SOAmount != "" {
			a.SOAmount = "1," + a.SOAmount // stray thousands separator
		}
	case 4:
		a.SOAmount = "n/a"
	case 5:
		a.DateCreated = "" // undated
	case 6:
		a.TicketEndorsed = a.TicketReceived
		a.TicketReceived = "" // half-timed
	case 7:
		a.DateCreated = a.DateCreated[:len("2006-01-02T15:04:05")] // naive timestamp
	case 8:
		a.Traffic = "  sales " // sloppy casing
	}
}

func handlingMinutes(rng *rand.Rand, distribution string) float64 {
	if distribution == "weibull" {
		return weibullSample(rng, 1.2, 180)
	}
	return 30 + rng.Float64()*240
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// Save writes the snapshot into outDir as <id>.json, where the file store finds it.
func Save(ctx context.Context, outDir string, snap *snapshot.Snapshot) error {
	return snapshot.NewFileStore(outDir).Save(ctx, snap)
}
