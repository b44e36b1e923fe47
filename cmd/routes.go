package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	clientMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("client"))
	workerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("worker"))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Bookings. Specific paths go before /bookings/:id so pat does not
	// swallow them.
	mux.Get("/bookings/client/:id", clientMiddleware.ThenFunc(app.bookingHandler.ListClientBookings))
	mux.Get("/bookings/worker/:id", workerMiddleware.ThenFunc(app.bookingHandler.ListWorkerBookings))
	mux.Post("/bookings", clientMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Get("/bookings/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBooking))
	mux.Post("/bookings/:id/accept", workerMiddleware.ThenFunc(app.bookingHandler.AcceptBooking))
	mux.Post("/bookings/:id/start", workerMiddleware.ThenFunc(app.bookingHandler.StartBooking))
	mux.Post("/bookings/:id/complete", workerMiddleware.ThenFunc(app.bookingHandler.MarkWorkerCompleted))
	mux.Post("/bookings/:id/confirm", clientMiddleware.ThenFunc(app.bookingHandler.ConfirmCompletion))
	mux.Post("/bookings/:id/cancel", clientMiddleware.ThenFunc(app.bookingHandler.CancelBooking))
	mux.Get("/bookings/:id/escrow", authMiddleware.ThenFunc(app.bookingHandler.GetEscrowPayment))
	mux.Get("/bookings/:id/history", adminMiddleware.ThenFunc(app.bookingHandler.GetPaymentHistory))

	// Disputes
	mux.Post("/disputes", clientMiddleware.ThenFunc(app.disputeHandler.CreateDispute))
	mux.Post("/disputes/:id/response", workerMiddleware.ThenFunc(app.disputeHandler.AddWorkerResponse))
	mux.Post("/disputes/:id/evidence", clientMiddleware.ThenFunc(app.disputeHandler.UploadEvidence))
	mux.Get("/disputes/:id/user/:user_id", authMiddleware.ThenFunc(app.disputeHandler.GetDispute))
	mux.Get("/admin/disputes", adminMiddleware.ThenFunc(app.disputeHandler.ListOpenDisputes))
	mux.Get("/admin/disputes/:id", adminMiddleware.ThenFunc(app.disputeHandler.ReviewDispute))
	mux.Post("/admin/disputes/:id/resolve", adminMiddleware.ThenFunc(app.disputeHandler.ResolveDispute))

	// Job applications
	mux.Post("/applications", workerMiddleware.ThenFunc(app.applicationHandler.Apply))
	mux.Post("/applications/:id/select", clientMiddleware.ThenFunc(app.applicationHandler.SelectWorker))
	mux.Post("/applications/:id/accept", workerMiddleware.ThenFunc(app.applicationHandler.AcceptSelection))
	mux.Post("/applications/:id/decline", workerMiddleware.ThenFunc(app.applicationHandler.DeclineSelection))
	mux.Get("/applications/:id/window", authMiddleware.ThenFunc(app.applicationHandler.WindowStatus))

	// Reviews
	mux.Post("/reviews", clientMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/reviews/worker/:id/rating", authMiddleware.ThenFunc(app.reviewHandler.WorkerRating))
	mux.Get("/reviews/worker/:id", authMiddleware.ThenFunc(app.reviewHandler.ListWorkerReviews))

	// Notifications
	mux.Get("/notifications/:user_id", authMiddleware.ThenFunc(app.notificationHandler.ListForUser))

	// Profile
	mux.Post("/users/fcm_token", authMiddleware.ThenFunc(app.userHandler.SaveFCMToken))
	mux.Post("/users/payout_account", workerMiddleware.ThenFunc(app.userHandler.SetPayoutAccount))

	return standardMiddleware.Then(mux)
}
