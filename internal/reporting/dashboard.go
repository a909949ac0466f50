package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

type dashboardDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type dashboardRepo interface {
	BookingsByDay(ctx context.Context, start, end time.Time) ([]BookingCohortDay, error)
}

// BookingCohortDay captures booking counts by start-of-appointment day.
type BookingCohortDay struct {
	Day       time.Time `json:"-"`
	DayLabel  string    `json:"day"`
	Pending   int64     `json:"pending"`
	Confirmed int64     `json:"confirmed"`
	Cancelled int64     `json:"cancelled"`
}

type SlotLatencySnapshot struct {
	Total   int64               `json:"total"`
	P90Ms   float64             `json:"p90_ms"`
	P95Ms   float64             `json:"p95_ms"`
	Buckets []SlotLatencyBucket `json:"buckets"`
}

type SlotLatencyBucket struct {
	LeSeconds float64 `json:"le_seconds"`
	Label     string  `json:"label,omitempty"`
	Count     int64   `json:"count"`
}

type Dashboard struct {
	PeriodStart       string              `json:"period_start"`
	PeriodEnd         string              `json:"period_end"`
	TotalBookings     int64               `json:"total_bookings"`
	ConfirmedBookings int64               `json:"confirmed_bookings"`
	CancelledBookings int64               `json:"cancelled_bookings"`
	ConfirmationPct   float64             `json:"confirmation_pct"`
	SlotQueryLatency  SlotLatencySnapshot `json:"slot_query_latency"`
	Daily             []BookingCohortDay  `json:"daily"`
}

// DashboardRepository queries shop-level operational metrics from the database.
type DashboardRepository struct {
	db dashboardDB
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	if pool == nil {
		panic("reporting: pgx pool required for dashboard")
	}
	return &DashboardRepository{db: pool}
}

func NewDashboardRepositoryWithDB(db dashboardDB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) BookingsByDay(ctx context.Context, start, end time.Time) ([]BookingCohortDay, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("reporting dashboard: invalid time range")
	}

	query := `
		SELECT date_trunc('day', b.start_at) AS day,
		       COUNT(*) FILTER (WHERE b.status = 'pending') AS pending,
		       COUNT(*) FILTER (WHERE b.status = 'confirmed') AS confirmed,
		       COUNT(*) FILTER (WHERE b.status = 'cancelled') AS cancelled
		FROM bookings b
		WHERE b.start_at >= $1
		  AND b.start_at < $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporting dashboard: query cohort: %w", err)
	}
	defer rows.Close()

	var results []BookingCohortDay
	for rows.Next() {
		var day time.Time
		var pending, confirmed, cancelled int64
		if err := rows.Scan(&day, &pending, &confirmed, &cancelled); err != nil {
			return nil, fmt.Errorf("reporting dashboard: scan cohort: %w", err)
		}
		results = append(results, BookingCohortDay{
			Day:       day.UTC(),
			DayLabel:  day.UTC().Format("2006-01-02"),
			Pending:   pending,
			Confirmed: confirmed,
			Cancelled: cancelled,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reporting dashboard: iterate cohort: %w", err)
	}
	return results, nil
}

// DashboardHandler serves operational dashboard JSON for shop admins.
type DashboardHandler struct {
	repo     dashboardRepo
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

func NewDashboardHandler(repo dashboardRepo, gatherer prometheus.Gatherer, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &DashboardHandler{
		repo:     repo,
		gatherer: gatherer,
		logger:   logger,
	}
}

// GetDashboard returns shop operational metrics.
// GET /admin/dashboard
// Query params:
//   - start: RFC3339 timestamp (optional, requires end)
//   - end: RFC3339 timestamp (optional, requires start)
//   - days: integer window (default 7) when start/end omitted
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, `{"error":"dashboard disabled (db not configured)"}`, http.StatusServiceUnavailable)
		return
	}

	start, end, err := parseDashboardWindow(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	cohort, err := h.repo.BookingsByDay(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to query dashboard cohort", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	cohort = fillMissingDays(cohort, start, end)

	var total, confirmed, cancelled int64
	for _, day := range cohort {
		total += day.Pending + day.Confirmed + day.Cancelled
		confirmed += day.Confirmed
		cancelled += day.Cancelled
	}

	confirmationPct := 0.0
	if total > 0 {
		confirmationPct = (float64(confirmed) / float64(total)) * 100.0
	}

	latency := snapshotSlotLatency(h.gatherer)

	resp := Dashboard{
		PeriodStart:       start.UTC().Format(time.RFC3339),
		PeriodEnd:         end.UTC().Format(time.RFC3339),
		TotalBookings:     total,
		ConfirmedBookings: confirmed,
		CancelledBookings: cancelled,
		ConfirmationPct:   confirmationPct,
		SlotQueryLatency:  latency,
		Daily:             cohort,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func parseDashboardWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	startRaw := strings.TrimSpace(q.Get("start"))
	endRaw := strings.TrimSpace(q.Get("end"))
	if (startRaw == "") != (endRaw == "") {
		return time.Time{}, time.Time{}, fmt.Errorf("both start and end must be provided, or neither")
	}
	if startRaw != "" {
		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time, use RFC3339 format")
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end time, use RFC3339 format")
		}
		if !end.After(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("end must be after start")
		}
		return start.UTC(), end.UTC(), nil
	}

	days := 7
	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid days; must be 1-90")
		}
		days = parsed
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)
	return start, end, nil
}

func fillMissingDays(existing []BookingCohortDay, start, end time.Time) []BookingCohortDay {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	lookup := map[string]BookingCohortDay{}
	for _, d := range existing {
		key := d.Day.UTC().Format("2006-01-02")
		lookup[key] = d
	}

	out := make([]BookingCohortDay, 0, int(endDay.Sub(startDay).Hours()/24)+1)
	for day := startDay; day.Before(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if found, ok := lookup[key]; ok {
			out = append(out, found)
			continue
		}
		out = append(out, BookingCohortDay{
			Day:      day,
			DayLabel: key,
		})
	}
	return out
}

func snapshotSlotLatency(gatherer prometheus.Gatherer) SlotLatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return SlotLatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == "barbershop_bookings_slot_query_seconds" {
			family = mf
			break
		}
	}
	if family == nil {
		return SlotLatencySnapshot{}
	}

	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64

	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		h := metric.GetHistogram()
		if h == nil {
			continue
		}
		sampleCount += h.GetSampleCount()
		for _, b := range h.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if sampleCount == 0 || len(cumulativeByUpper) == 0 {
		return SlotLatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	buckets := make([]SlotLatencyBucket, 0, len(uppers))
	var prev uint64
	var lastFiniteUpper float64
	for _, upper := range uppers {
		cum := cumulativeByUpper[upper]
		if math.IsInf(upper, 1) {
			overflow := int64(0)
			if cum >= prev {
				overflow = int64(cum - prev)
			} else {
				overflow = int64(cum)
			}
			if overflow > 0 {
				buckets = append(buckets, SlotLatencyBucket{
					LeSeconds: lastFiniteUpper,
					Label:     fmt.Sprintf(">%s", formatSeconds(lastFiniteUpper)),
					Count:     overflow,
				})
			}
			prev = cum
			continue
		}

		lastFiniteUpper = upper
		count := int64(0)
		if cum >= prev {
			count = int64(cum - prev)
		} else {
			count = int64(cum)
		}
		buckets = append(buckets, SlotLatencyBucket{
			LeSeconds: upper,
			Count:     count,
		})
		prev = cum
	}

	p90 := histogramQuantile(0.90, sampleCount, uppers, cumulativeByUpper)
	p95 := histogramQuantile(0.95, sampleCount, uppers, cumulativeByUpper)

	return SlotLatencySnapshot{
		Total:   int64(sampleCount),
		P90Ms:   p90 * 1000.0,
		P95Ms:   p95 * 1000.0,
		Buckets: buckets,
	}
}

func histogramQuantile(q float64, total uint64, uppers []float64, cumulativeByUpper map[float64]uint64) float64 {
	if total == 0 || q <= 0 {
		return 0
	}
	if q >= 1 {
		for i := len(uppers) - 1; i >= 0; i-- {
			if !math.IsInf(uppers[i], 1) {
				return uppers[i]
			}
		}
		return 0
	}

	target := q * float64(total)
	var prevUpper float64
	var prevCum float64

	for _, upper := range uppers {
		cum := float64(cumulativeByUpper[upper])
		if cum < target {
			prevUpper = upper
			prevCum = cum
			continue
		}

		// If we can't interpolate, return the bucket upper bound.
		bucketCount := cum - prevCum
		if bucketCount <= 0 || upper == prevUpper {
			return upper
		}
		if math.IsInf(upper, 1) {
			return prevUpper
		}

		fraction := (target - prevCum) / bucketCount
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}

		lower := prevUpper
		return lower + fraction*(upper-lower)
	}

	return uppers[len(uppers)-1]
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 1 {
		return fmt.Sprintf("%.2fs", seconds)
	}
	if seconds < 10 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	return fmt.Sprintf("%.0fs", seconds)
}
