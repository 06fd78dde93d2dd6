package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"browsemind/internal/di"
	"browsemind/internal/domain/apperr"
	"browsemind/internal/infrastructure/config"
	"browsemind/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	cfg, err := config.FromEnv(envService)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	task := strings.Join(os.Args[1:], " ")
	if strings.TrimSpace(task) == "" {
		fmt.Println("\nEnter a task for the agent:")
		reader := bufio.NewReader(os.Stdin)
		task, err = reader.ReadString('\n')
		if err != nil {
			log.Fatal("Failed to read input: ", err)
		}
		task = strings.TrimSpace(task)
	}

	runTimeout := envService.GetDuration("RUN_TIMEOUT", 30*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	debug := envService.GetBool("DEBUG", false)

	container, err := di.NewContainer(ctx, cfg, debug)
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	container.Logger.Info("Task started", "task", task)
	fmt.Println("\nAgent is running...")

	result, err := container.TaskExecutor.Execute(ctx, task)
	if err != nil {
		container.Logger.Error("Task failed", "error", err)
		fmt.Printf("\n%s\n", renderError(err))
		container.Close()
		os.Exit(1)
	}

	container.Logger.Info("Task completed", "iterations", result.Iterations)
	fmt.Println("\nFINAL ANSWER:")
	fmt.Println(result.FinalAnswer)
}

func renderError(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindConfiguration:
			return fmt.Sprintf("Configuration error: %v", err)
		case apperr.KindBrowser:
			return fmt.Sprintf("Browser error: %v", err)
		case apperr.KindModelProtocol:
			return fmt.Sprintf("Model protocol error: %v", err)
		case apperr.KindModelUnavailable:
			return fmt.Sprintf("Model unavailable: %v", err)
		}
	}
	return fmt.Sprintf("Execution error: %v", err)
}
