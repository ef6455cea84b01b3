package record

import (
	"context"
	"fmt"
)

// RunInfo describes a recorded run.
type RunInfo struct {
	ID        string `json:"id"`
	Pipeline  string `json:"pipeline"`
	StartedAt string `json:"started_at"`
	Emissions int    `json:"emissions"`
}

// Emission is one recorded delivery.
type Emission struct {
	Seq    int64  `json:"seq"`
	Stream string `json:"stream"`
	Value  any    `json:"value"`
}

// Runs returns all recorded runs, most recent first. Returns an empty
// slice, not nil, when the database holds no runs.
func (r *Recorder) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.pipeline, r.started_at, COUNT(e.seq)
		FROM runs r
		LEFT JOIN emissions e ON e.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Pipeline, &info.StartedAt, &info.Emissions); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Emissions returns a run's trace in delivery order. The optional
// stream filter restricts results to one stream; pass "" for all.
func (r *Recorder) Emissions(ctx context.Context, runID, stream string) ([]Emission, error) {
	query := `
		SELECT seq, stream, value
		FROM emissions
		WHERE run_id = ?
		ORDER BY seq ASC
	`
	args := []any{runID}
	if stream != "" {
		query = `
			SELECT seq, stream, value
			FROM emissions
			WHERE run_id = ? AND stream = ?
			ORDER BY seq ASC
		`
		args = append(args, stream)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query emissions: %w", err)
	}
	defer rows.Close()

	emissions := []Emission{}
	for rows.Next() {
		var (
			e       Emission
			encoded string
		)
		if err := rows.Scan(&e.Seq, &e.Stream, &encoded); err != nil {
			return nil, fmt.Errorf("scan emission: %w", err)
		}
		e.Value, err = unmarshalValue(encoded)
		if err != nil {
			return nil, err
		}
		emissions = append(emissions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emissions: %w", err)
	}
	return emissions, nil
}
