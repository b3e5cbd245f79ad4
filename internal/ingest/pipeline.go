package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/draftline-io/linkedin-ingest/internal/telemetry"
)

var (
	errNotAnObject        = errors.New("list element is not a JSON object")
	errCompanyNameMissing = errors.New("company record has no usable name")
)

// Config controls Pipeline behavior.
type Config struct {
	// Topic receives a summary message after each batch; empty disables
	// publishing.
	Topic string
	// ArchivePrefix prefixes blob keys for raw envelope archives.
	ArchivePrefix string
}

// Pipeline executes the webhook ingestion flow: decode the envelope, classify
// each record, extract canonical fields, and persist the results. Records are
// processed strictly in delivery order, and a failing record never aborts the
// rest of the batch.
type Pipeline struct {
	store     Store
	fetcher   CSVFetcher
	archive   BlobStore
	publisher Publisher
	hasher    Hasher
	clock     Clock
	ids       IDGenerator
	cfg       Config
	logger    *zap.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(
	store Store,
	fetcher CSVFetcher,
	archive BlobStore,
	publisher Publisher,
	hasher Hasher,
	clock Clock,
	ids IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ArchivePrefix == "" {
		cfg.ArchivePrefix = "webhooks"
	}
	return &Pipeline{
		store:     store,
		fetcher:   fetcher,
		archive:   archive,
		publisher: publisher,
		hasher:    hasher,
		clock:     clock,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
	}
}

// Ingest processes one webhook delivery and reports what was persisted.
// The returned error is one of ErrStoreUnavailable, *EnvelopeError, or
// *DownloadError; record-level failures are absorbed into the summary.
func (p *Pipeline) Ingest(ctx context.Context, body []byte) (BatchSummary, error) {
	start := p.clock.Now()

	if err := p.store.Ping(ctx); err != nil {
		return BatchSummary{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	envelope, err := parseEnvelope(body)
	if err != nil {
		telemetry.ObserveBatch("", "rejected", p.clock.Now().Sub(start))
		return BatchSummary{}, err
	}

	batchID := p.newBatchID()
	archiveURI := p.archiveEnvelope(ctx, batchID, body)

	records, format, err := p.decode(ctx, envelope)
	if err != nil {
		telemetry.ObserveBatch(string(format), "rejected", p.clock.Now().Sub(start))
		return BatchSummary{}, err
	}

	summary := BatchSummary{
		BatchID:    batchID,
		Format:     format,
		Total:      len(records),
		ArchiveURI: archiveURI,
	}
	for i, rec := range records {
		p.processRecord(ctx, i, rec, &summary)
	}

	telemetry.ObserveBatch(string(format), "ok", p.clock.Now().Sub(start))
	p.publishSummary(ctx, summary)

	p.logger.Info("batch ingested",
		zap.String("batch_id", summary.BatchID),
		zap.String("format", string(summary.Format)),
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func parseEnvelope(body []byte) (RawRecord, error) {
	var env RawRecord
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &EnvelopeError{Reason: "no JSON data received"}
	}
	if env == nil {
		return nil, &EnvelopeError{Reason: "no JSON data received"}
	}
	return env, nil
}

// decode routes the envelope to the embedded-JSON or CSV-download path.
// An embedded resultObject wins when both are present.
func (p *Pipeline) decode(ctx context.Context, env RawRecord) ([]RawRecord, Format, error) {
	if _, ok := env[resultObjectKey]; ok {
		records, err := DecodeResultObject(env)
		if err != nil {
			return nil, FormatJSON, err
		}
		return records, FormatJSON, nil
	}
	if url := StringField(env, csvURLKeys, ""); url != "" {
		records, err := p.fetchCSV(ctx, url)
		if err != nil {
			return nil, FormatCSV, err
		}
		return records, FormatCSV, nil
	}
	return nil, "", &EnvelopeError{Reason: "no resultObject or csvUrl found"}
}

func (p *Pipeline) fetchCSV(ctx context.Context, url string) ([]RawRecord, error) {
	payload, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}
	if payload.StatusCode < 200 || payload.StatusCode >= 300 {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("unexpected status %d", payload.StatusCode)}
	}
	telemetry.AddCSVDownloadBytes(len(payload.Body))
	p.logger.Debug("csv export downloaded", zap.String("url", url), zap.Int("bytes", len(payload.Body)))
	return DecodeCSV(string(payload.Body), p.logger), nil
}

func (p *Pipeline) processRecord(ctx context.Context, index int, rec RawRecord, summary *BatchSummary) {
	if rec == nil {
		p.recordFailed(summary, &RecordError{Index: index, Kind: KindUnknown, Err: errNotAnObject})
		return
	}

	kind := Classify(rec)
	switch kind {
	case KindCompany:
		if err := p.persistCompany(ctx, rec); err != nil {
			p.recordFailed(summary, &RecordError{Index: index, Kind: kind, Err: err})
			return
		}
		summary.Companies++
	case KindPost:
		if err := p.persistPost(ctx, rec); err != nil {
			p.recordFailed(summary, &RecordError{Index: index, Kind: kind, Err: err})
			return
		}
		summary.Posts++
	default:
		summary.Skipped++
		p.logger.Warn("unknown record type", zap.Int("index", index))
		telemetry.ObserveRecord(string(summary.Format), string(kind), "skipped")
		return
	}

	summary.Processed++
	telemetry.ObserveRecord(string(summary.Format), string(kind), "ok")
}

func (p *Pipeline) recordFailed(summary *BatchSummary, recErr *RecordError) {
	summary.Failed++
	p.logger.Error("record processing failed",
		zap.Int("index", recErr.Index),
		zap.String("kind", string(recErr.Kind)),
		zap.Error(recErr.Err),
	)
	telemetry.ObserveRecord(string(summary.Format), string(recErr.Kind), "failed")
}

func (p *Pipeline) persistCompany(ctx context.Context, rec RawRecord) error {
	profile := ExtractCompany(rec, p.clock.Now())
	if profile.Name == "" {
		return errCompanyNameMissing
	}
	if _, err := p.store.UpsertCompany(ctx, profile); err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	p.logger.Debug("company profile saved", zap.String("name", profile.Name))
	return nil
}

func (p *Pipeline) persistPost(ctx context.Context, rec RawRecord) error {
	identity, err := PostIdentity(rec, p.hasher)
	if err != nil {
		return err
	}
	post := ExtractPost(rec)
	post.LinkedInPostID = identity

	postID, err := p.store.UpsertPost(ctx, post)
	if err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}

	if err := p.store.InsertEngagement(ctx, ExtractEngagement(rec, postID, p.clock.Now())); err != nil {
		return fmt.Errorf("insert engagement: %w", err)
	}
	p.logger.Debug("post and engagement saved",
		zap.String("linkedin_post_id", identity),
		zap.Int64("post_id", postID),
	)
	return nil
}

func (p *Pipeline) newBatchID() string {
	id, err := p.ids.NewID()
	if err != nil || id == "" {
		p.logger.Warn("batch id generation failed", zap.Error(err))
		return fmt.Sprintf("batch-%d", p.clock.Now().UnixNano())
	}
	return id
}

// archiveEnvelope stores the raw request body for replay and audit. Failures
// are logged and swallowed; archiving never blocks ingestion.
func (p *Pipeline) archiveEnvelope(ctx context.Context, batchID string, body []byte) string {
	if p.archive == nil {
		return ""
	}
	uri, err := p.archive.PutObject(ctx, p.buildArchivePath(batchID), "application/json", body)
	if err != nil {
		p.logger.Warn("envelope archive failed", zap.String("batch_id", batchID), zap.Error(err))
		return ""
	}
	return uri
}

func (p *Pipeline) buildArchivePath(batchID string) string {
	prefix := strings.Trim(p.cfg.ArchivePrefix, "/")
	if prefix == "" {
		return batchID + ".json"
	}
	return fmt.Sprintf("%s/%s.json", prefix, batchID)
}

func (p *Pipeline) publishSummary(ctx context.Context, summary BatchSummary) {
	if p.cfg.Topic == "" || p.publisher == nil {
		return
	}
	payload := map[string]any{
		"batch_id":    summary.BatchID,
		"format":      string(summary.Format),
		"total":       summary.Total,
		"processed":   summary.Processed,
		"companies":   summary.Companies,
		"posts":       summary.Posts,
		"skipped":     summary.Skipped,
		"failed":      summary.Failed,
		"archive_uri": summary.ArchiveURI,
		"timestamp":   p.clock.Now().Format(time.RFC3339),
	}
	if _, err := p.publisher.Publish(ctx, p.cfg.Topic, payload); err != nil {
		p.logger.Warn("summary publish failed", zap.String("batch_id", summary.BatchID), zap.Error(err))
	}
}
