package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/database"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/http/handlers"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/http/middleware"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/mail"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/queue"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal(err)
	}

	// Modo de tenancy: POOLED (padrão implantado, todos os tenants num
	// quadro só) ou ISOLATED.
	scope := entity.ParseTenantScope(os.Getenv("TENANT_SCOPE"))
	tenantID := os.Getenv("TENANT_ID")
	log.Printf("🏢 Tenancy: %s", scope)

	// 1. Repositórios
	stageRepo := database.NewStageRepository(db)
	leadRepo := database.NewLeadRepository(db)

	// 2. Fila de eventos (opcional: sem RabbitMQ o engine roda sem notificações)
	var events usecase.PipelineEventPublisher
	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Printf("⚠️ RabbitMQ indisponível, seguindo sem eventos: %v", err)
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		events = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		// 3. Worker de notificações (consome a fila e dispara o email de
		// negócio fechado)
		mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if mailPort == 0 {
			mailPort = 587
		}
		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), mailPort,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"), os.Getenv("NOTIFY_EMAIL"),
		)
		worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go worker.Start(queue.QueueName)
	}

	// 4. UseCases
	bootstrapUC := usecase.NewBootstrapUseCase(stageRepo, tenantID)
	if err := bootstrapUC.Execute(context.Background()); err != nil {
		log.Fatal(err)
	}

	boardUC := usecase.NewBoardUseCase(stageRepo, leadRepo, scope, tenantID)
	stageUC := usecase.NewStageUseCase(stageRepo, leadRepo, events)
	leadUC := usecase.NewLeadUseCase(stageRepo, leadRepo, events)

	// 5. Handlers
	boardHandler := handlers.NewBoardHandler(boardUC)
	stageHandler := handlers.NewStageHandler(stageUC)
	leadHandler := handlers.NewLeadHandler(leadUC)

	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/board", boardHandler.HandleGetBoard)
	r.Get("/board/aggregates", boardHandler.HandleGetAggregates)

	r.Post("/stages", stageHandler.HandleCreate)
	r.Put("/stages/reorder", stageHandler.HandleReorder)
	r.Put("/stages/{id}", stageHandler.HandleRename)
	r.Delete("/stages/{id}", stageHandler.HandleDelete)

	r.Post("/leads", leadHandler.HandleCreate)
	r.Put("/leads/{id}", leadHandler.HandleUpdate)
	r.Put("/leads/{id}/move", leadHandler.HandleMove)
	r.Delete("/leads/{id}", leadHandler.HandleDelete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🔥 Pipeline engine rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}
