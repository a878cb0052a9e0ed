package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/courtline/tennis-ladder/handlers"
	"github.com/courtline/tennis-ladder/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	seasonHandler *handlers.SeasonHandler,
	scheduleHandler *handlers.ScheduleHandler,
	scoreHandler *handlers.ScoreHandler,
	ratingHandler *handlers.RatingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticator(jwtSecret)
	adminOnly := middleware.Authorize(middleware.RoleAdmin)

	router.Get("/players/ladder", seasonHandler.ListLadder)

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/{seasonID}", seasonHandler.Get)
		r.Get("/{seasonID}/standings", seasonHandler.Standings)
		r.Get("/{seasonID}/matches", seasonHandler.ListMatches)
		r.Get("/{seasonID}/players/{playerID}/history", seasonHandler.PlayerRatingHistory)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{seasonID}/predictions", ratingHandler.Predict)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", seasonHandler.Create)
			r.Post("/{seasonID}/complete", seasonHandler.Complete)
			r.Post("/{seasonID}/matches", seasonHandler.AddMatch)
			r.Post("/{seasonID}/players", seasonHandler.AddPlayer)
			r.Post("/{seasonID}/recalculation", ratingHandler.Recalculate)
			r.Post("/{seasonID}/export", seasonHandler.ExportStandings)
		})
	})

	router.Route("/matches/{matchID}/fixtures", func(r chi.Router) {
		r.Get("/", scheduleHandler.ListFixtures)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/", scheduleHandler.GenerateFixtures)
		})
	})

	router.Route("/fixtures/{fixtureID}", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/results", scoreHandler.SubmitScore)
		r.Get("/conflicts", scoreHandler.ListConflicts)
		r.Post("/challenges", scoreHandler.Challenge)
	})

	router.Route("/challenges", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Get("/", scoreHandler.ListChallenges)
		r.Post("/{challengeID}/resolution", scoreHandler.ResolveChallenge)
	})

	router.Get("/ws/seasons/{seasonID}", webSocketHandler.ServeSeason)
}
