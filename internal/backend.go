package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/markusressel/fan2pwm/internal/api"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/controller"
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/markusressel/fan2pwm/internal/sensors"
	"github.com/markusressel/fan2pwm/internal/statistics"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// RunDaemon controls the configured fan until ctx is done, a termination signal
// is received or the control loop fails. The fan is released before returning,
// unless the control loop failed.
func RunDaemon(ctx context.Context) error {
	fan, sensor, err := InitializeObjects()
	if err != nil {
		return err
	}
	// a failed control loop leaves the fan at its last duty cycle
	controllerFailed := false
	defer func() {
		if controllerFailed {
			ui.Warning("Leaving fan %s at its last duty cycle.", fan.GetId())
			return
		}
		if err := fan.Close(); err != nil {
			ui.Warning("Unable to release fan %s: %v", fan.GetId(), err)
		} else {
			ui.Info("Released fan %s.", fan.GetId())
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	{
		config := configuration.CurrentConfig.Statistics
		if config.Enabled {
			// === Prometheus Exporter
			addr := fmt.Sprintf(":%d", config.Port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s...", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		config := configuration.CurrentConfig.Api
		if config.Enabled {
			// === REST Api
			addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
			rest := api.CreateRestService()

			g.Add(func() error {
				ui.Info("Starting REST api server on %s...", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start REST api: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping REST api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST api server: %v", err)
				}
			})
		}
	}
	{
		// === fan controller
		config := configuration.CurrentConfig.Fan
		fanController := controller.NewFanController(fan, sensor, config.UpdateRate, config.FailSafe)

		g.Add(func() error {
			err := fanController.Run(ctx)
			controllerFailed = err != nil
			ui.Info("Fan controller for fan %s stopped.", fan.GetId())
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %v signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	return g.Run()
}

// InitializeObjects creates the sensor and fan described by the current configuration
// and registers them for statistics and the api.
func InitializeObjects() (*fans.Fan, sensors.Sensor, error) {
	sensor, err := sensors.NewSensor(configuration.CurrentConfig.Sensor)
	if err != nil {
		return nil, nil, err
	}
	if value, err := sensor.GetValue(); err != nil {
		ui.Warning("Error reading sensor %s: %v", sensor.GetId(), err)
	} else {
		ui.Info("Sensor %s: %.1f°C", sensor.GetId(), value)
	}
	sensors.SensorMap.Set(sensor.GetId(), sensor)

	fan, err := fans.NewFan(configuration.CurrentConfig.Fan)
	if err != nil {
		return nil, nil, err
	}
	ui.Info("Using fan %s on %s", fan.GetId(), fan.GetTarget())
	fans.FanMap.Set(fan.GetId(), fan)

	if configuration.CurrentConfig.Statistics.Enabled {
		statistics.Register(statistics.NewSensorCollector([]sensors.Sensor{sensor}))
		statistics.Register(statistics.NewFanCollector([]*fans.Fan{fan}))
	}

	return fan, sensor, nil
}
