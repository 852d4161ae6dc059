package internal

import (
	"net/http"

	"consentd/internal/controllers"
	"consentd/internal/providers"
	"consentd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/responses", http.HandlerFunc(apiController.SubmitResponse))
	routers.Get("/api/responses", http.HandlerFunc(apiController.ListResponses))
	routers.Get("/api/responses/export/json", http.HandlerFunc(apiController.ExportJSON))
	routers.Get("/api/responses/export/csv", http.HandlerFunc(apiController.ExportCSV))
	routers.Get("/api/responses/export/excel", http.HandlerFunc(apiController.ExportExcel))
	routers.Get("/api/stats", http.HandlerFunc(apiController.GetStats))
	routers.Post("/api/responses/clear", http.HandlerFunc(apiController.ClearResponses))
	return routers
}
