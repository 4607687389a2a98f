package main

import (
	"context"
	"customer-service/internal/batch"
	"customer-service/internal/config"
	"customer-service/internal/infrastructure/database/memory"
	"io"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeRepository_Memory(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	repo, closeFn := initializeRepository(context.Background(), cfg, discardLogger())
	defer closeFn()

	assert.IsType(t, &memory.CustomerRepository{}, repo)
}

func TestInitializeServices_WithoutBroker(t *testing.T) {
	cfg := &config.Config{}
	svc := initializeServices(cfg, memory.NewCustomerRepository(), nil, discardLogger())

	customers, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestRabbitMQURI(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RabbitMQConfig
		want    string
		wantErr bool
	}{
		{"credentials", config.RabbitMQConfig{Host: "mq", Port: 5673, Username: "u", Password: "p"}, "amqp://u:p@mq:5673/", false},
		{"default port", config.RabbitMQConfig{Host: "mq"}, "amqp://mq:5672/", false},
		{"missing host", config.RabbitMQConfig{}, "", true},
		{"half credentials", config.RabbitMQConfig{Host: "mq", Username: "u"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rabbitMQURI(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupRabbitMQ_Disabled(t *testing.T) {
	cfg := &config.Config{RabbitMQ: config.RabbitMQConfig{Enabled: false, Host: "mq"}}
	assert.Nil(t, setupRabbitMQ(cfg, discardLogger()))
}

func TestInitializeRedisClient_NotConfigured(t *testing.T) {
	assert.Nil(t, initializeRedisClient(&config.Config{}, discardLogger()))
}

func TestStartBatchJobs(t *testing.T) {
	cfg := &config.Config{Batch: config.BatchConfig{CustomerStatsSchedule: "@every 1h"}}
	job := batch.NewCustomerStatsJob(memory.NewCustomerRepository(), discardLogger())

	c := startBatchJobs(cfg, discardLogger(), job)
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, discardLogger())

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")

	shutdownHTTPServer(srv, serverErrors, discardLogger())
}

func TestHandleShutdown(t *testing.T) {
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	assert.NotPanics(t, func() {
		handleShutdown(srv, cronScheduler, nil, nil, shutdownChan, serverErrors, discardLogger())
	})
}
