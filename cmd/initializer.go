package main

import (
	"database/sql"
	"log"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"hyreBack/internal/config"
	"hyreBack/internal/handlers"
	"hyreBack/internal/notify"
	"hyreBack/internal/pay"
	"hyreBack/internal/repositories"
	"hyreBack/internal/services"
	"hyreBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	userRepo *repositories.UserRepository

	bookingHandler      *handlers.BookingHandler
	disputeHandler      *handlers.DisputeHandler
	applicationHandler  *handlers.ApplicationHandler
	notificationHandler *handlers.NotificationHandler
	userHandler         *handlers.UserHandler
	reviewHandler       *handlers.ReviewHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcm *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	escrowRepo := repositories.EscrowRepository{DB: db}
	disputeRepo := repositories.DisputeRepository{DB: db}
	applicationRepo := repositories.ApplicationRepository{DB: db}
	notificationRepo := repositories.NotificationRepository{DB: db}
	historyRepo := repositories.PaymentHistoryRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	dedup := repositories.NotificationDedup{Client: rdb}

	// Outbound clients
	gateway := pay.NewClient(nil, cfg.Paystack.SecretKey)
	smsClient := notify.NewSMSClient(nil, cfg.SMS.APIKey, cfg.SMS.SenderID)
	emailSender := &notify.EmailSender{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}

	var storage *utils.Storage
	if cfg.S3.Bucket != "" {
		var err error
		storage, err = utils.NewStorage(cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			errorLog.Printf("s3 init failed, evidence uploads disabled: %v", err)
		}
	}

	// Services
	notificationService := &services.NotificationService{
		Store:    &notificationRepo,
		Dedup:    &dedup,
		Users:    &userRepo,
		FCM:      fcm,
		SMSGate:  smsClient,
		EmailGw:  emailSender,
		ErrorLog: errorLog,
	}
	escrowService := &services.EscrowService{
		EscrowRepo: &escrowRepo,
		Gateway:    gateway,
		Users:      &userRepo,
		History:    &historyRepo,
		FeePercent: cfg.Escrow.FeePercent,
		ErrorLog:   errorLog,
	}
	bookingService := &services.BookingService{
		Bookings:    &bookingRepo,
		Escrow:      escrowService,
		Disputes:    &disputeRepo,
		Users:       &userRepo,
		Notify:      notificationService,
		AdminUserID: cfg.Admin.UserID,
		InfoLog:     infoLog,
		ErrorLog:    errorLog,
	}
	disputeService := &services.DisputeService{
		Disputes:    &disputeRepo,
		Bookings:    bookingService,
		Users:       &userRepo,
		Notify:      notificationService,
		AdminUserID: cfg.Admin.UserID,
		ErrorLog:    errorLog,
	}
	applicationService := &services.ApplicationService{
		Apps:     &applicationRepo,
		Bookings: bookingService,
		Users:    &userRepo,
		Notify:   notificationService,
		Window:   time.Duration(cfg.Acceptance.WindowMinutes) * time.Minute,
		ErrorLog: errorLog,
	}
	userService := &services.UserService{
		Users:    &userRepo,
		Gateway:  gateway,
		ErrorLog: errorLog,
	}
	reviewService := &services.ReviewService{
		Reviews:  &reviewRepo,
		Bookings: &bookingRepo,
	}

	// Handlers
	bookingHandler := &handlers.BookingHandler{
		Service:  bookingService,
		Escrow:   escrowService,
		History:  &historyRepo,
		ErrorLog: errorLog,
	}
	disputeHandler := &handlers.DisputeHandler{
		Service:  disputeService,
		Bookings: bookingService,
		Storage:  storage,
		ErrorLog: errorLog,
	}
	applicationHandler := &handlers.ApplicationHandler{
		Service:  applicationService,
		ErrorLog: errorLog,
	}
	notificationHandler := &handlers.NotificationHandler{
		Service:  notificationService,
		ErrorLog: errorLog,
	}
	userHandler := &handlers.UserHandler{
		Service:  userService,
		ErrorLog: errorLog,
	}
	reviewHandler := &handlers.ReviewHandler{
		Service:  reviewService,
		ErrorLog: errorLog,
	}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		db:                  db,
		userRepo:            &userRepo,
		bookingHandler:      bookingHandler,
		disputeHandler:      disputeHandler,
		applicationHandler:  applicationHandler,
		notificationHandler: notificationHandler,
		userHandler:         userHandler,
		reviewHandler:       reviewHandler,
	}
}
