package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/intraday-dataset/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_updater.go -package=mocks github.com/rxtech-lab/intraday-dataset/internal/updater DatasetHost,BarFetcher,Summarizer
