package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worktally/attendance-backend-go/internal/config"
	appHTTP "github.com/worktally/attendance-backend-go/internal/handler/http"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/cron"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
	"github.com/worktally/attendance-backend-go/internal/pkg/notify"
	"github.com/worktally/attendance-backend-go/internal/pkg/sse"
	"github.com/worktally/attendance-backend-go/internal/repository/postgresql"
	archiveService "github.com/worktally/attendance-backend-go/internal/service/archive"
	attendanceService "github.com/worktally/attendance-backend-go/internal/service/attendance"
	payrollService "github.com/worktally/attendance-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, database.PoolLimits{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	clk := clock.System()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	historyRepo := postgresql.NewHistoryRepository(db)
	employeeDirectory := postgresql.NewEmployeeDirectory(db)

	hub := sse.NewHub()
	notifiers := []notify.Notifier{notify.NewSSENotifier(hub)}
	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.Webhook.URL))
	}
	notifier := notify.NewMulti(notifiers...)

	attendanceSvc := attendanceService.NewAttendanceService(clk, attendanceRepo, historyRepo, employeeDirectory, notifier)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, historyRepo, employeeDirectory)
	archiveTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	archiveSvc := archiveService.NewArchiveService(attendanceRepo, historyRepo, notifier, archiveTx)

	scheduler := cron.NewScheduler(clk)
	cron.NewAttendanceJobs(archiveSvc, clk).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, clk)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, clk)
	archiveHandler := appHTTP.NewArchiveHandler(archiveSvc, clk)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(
		cfg,
		attendanceHandler,
		payrollHandler,
		archiveHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
