// Package influx reports export timings to InfluxDB, falling back to a
// gzipped line-protocol file when the server cannot be reached.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/scorelect/drillboard/internal/config"
)

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx is disabled")

// RetentionSeconds is the retention applied to buckets the manager creates.
const RetentionSeconds = 60 * 60 * 24 * 90

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger

	cfg        config.InfluxConfig
	backupFile *os.File
	mu         sync.Mutex
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig) *Manager {
	return &Manager{
		Writers: make(map[string]influxdb2_api.WriteAPI),
		IsValid: false,
		Logger:  log,
		cfg:     cfg,
	}
}

// URL is the server address built from the configuration.
func (m *Manager) URL() string {
	return fmt.Sprintf("%s://%s:%s", m.cfg.Protocol, m.cfg.Host, m.cfg.Port)
}

// Connect establishes a connection to InfluxDB. When the server does not
// answer, points go to the backup file instead.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Logger.Warn().Err(err).Str("url", m.URL()).Msg("InfluxDB not reachable, using backup writer")
		m.Client.Close()
		m.Client = nil
		return m.OpenBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.CreateWriter(m.cfg.Bucket)
	m.IsValid = true
	m.Logger.Info().Str("url", m.URL()).Msg("InfluxDB client initialized")
	return nil
}

// OpenBackup opens the gzip backup file for appending.
func (m *Manager) OpenBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter != nil {
		return nil
	}
	if m.cfg.BackupPath == "" {
		return errors.New("influx backup path not set")
	}
	file, err := os.OpenFile(m.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	m.Logger.Info().Str("backupPath", m.cfg.BackupPath).Msg("Writing InfluxDB points to backup file")
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := m.cfg.Org

	// ensure org exists
	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err != nil {
		m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, m.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: RetentionSeconds,
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", m.cfg.Bucket).Msg("Error creating bucket")
			return err
		}
	}
	return nil
}

// CreateWriter creates the async write API for bucket and logs its errors.
func (m *Manager) CreateWriter(bucket string) {
	w := m.Client.WriteAPI(m.cfg.Org, bucket)
	m.Writers[bucket] = w

	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(w.Errors())

	m.Logger.Trace().Str("bucket", bucket).Msg("InfluxDB writer created")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the client and backup file.
func (m *Manager) Close() error {
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	m.IsValid = false

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return nil
	}
	err := errors.Join(m.BackupWriter.Close(), m.backupFile.Close())
	m.BackupWriter, m.backupFile = nil, nil
	return err
}
