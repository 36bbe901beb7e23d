package memory

import (
	"context"

	pkgLog "context-gateway/pkg/log"
)

const defaultBackfillBatch = 100

// Backfill copies every memory from src into dst. A record that fails to
// copy is logged and skipped; only export errors and ctx stop the run.
func Backfill(ctx context.Context, l pkgLog.Logger, src Exporter, dst Client, batch int) (BackfillResult, error) {
	if batch <= 0 {
		batch = defaultBackfillBatch
	}

	var (
		res   BackfillResult
		after int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		records, err := src.Export(ctx, after, batch)
		if err != nil {
			return res, err
		}
		if len(records) == 0 {
			return res, nil
		}

		for _, rec := range records {
			res.Read++
			after = rec.Seq
			_, err := dst.Add(ctx, AddInput{Text: rec.Content, OwnerID: rec.OwnerID, Metadata: rec.Metadata})
			if err != nil {
				res.Failed++
				l.Errorf(ctx, "internal.memory.Backfill: memory %s: %v", rec.ID, err)
				continue
			}
			res.Copied++
		}
		l.Infof(ctx, "internal.memory.Backfill: %d/%d copied", res.Copied, res.Read)
	}
}
