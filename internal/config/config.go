package config

import (
	"flag"
	"os"

	"github.com/caarlos0/env/v8"
)

type Config interface {
	ServerAddress() string
	DatabaseURI() string
	PayPalAddress() string
	PayPalClientID() string
	PayPalSecretKey() string
	StorageAddress() string
	StorageServiceKey() string
	StorageBucket() string
	AuthAddress() string
	RendererAddress() string
	PaymentReturnAddress() string
	ConversionPrice() float64
	ConversionCurrency() string
}

type Builder struct {
	parameters *parameters
	arguments  []string
	err        error
}

type parameters struct {
	ServerAddress        string  `env:"RUN_ADDRESS"`
	DatabaseURI          string  `env:"DATABASE_URI"`
	PayPalAddress        string  `env:"PAYPAL_ADDRESS"`
	PayPalClientID       string  `env:"PAYPAL_CLIENT_ID"`
	PayPalSecretKey      string  `env:"PAYPAL_SECRET_KEY"`
	StorageAddress       string  `env:"STORAGE_ADDRESS"`
	StorageServiceKey    string  `env:"STORAGE_SERVICE_KEY"`
	StorageBucket        string  `env:"STORAGE_BUCKET"`
	AuthAddress          string  `env:"AUTH_ADDRESS"`
	RendererAddress      string  `env:"RENDERER_ADDRESS"`
	PaymentReturnAddress string  `env:"PAYMENT_RETURN_ADDRESS"`
	ConversionPrice      float64 `env:"CONVERSION_PRICE"`
	ConversionCurrency   string  `env:"CONVERSION_CURRENCY"`
}

const (
	defaultServerAddress      = "localhost:8080"
	defaultPayPalAddress      = "https://api-m.sandbox.paypal.com"
	defaultStorageBucket      = "conversions"
	defaultConversionPrice    = 1.99
	defaultConversionCurrency = "USD"
)

func NewBuilder() *Builder {
	return &Builder{
		parameters: &parameters{
			ServerAddress:      defaultServerAddress,
			PayPalAddress:      defaultPayPalAddress,
			StorageBucket:      defaultStorageBucket,
			ConversionPrice:    defaultConversionPrice,
			ConversionCurrency: defaultConversionCurrency,
		},
		arguments: os.Args[1:],
	}
}

func (b *Builder) LoadEnv() *Builder {
	b.err = env.Parse(b.parameters)

	return b
}

func (b *Builder) LoadFlags() *Builder {
	flags := flag.NewFlagSet("doc2pdf", flag.ContinueOnError)
	flags.StringVar(&b.parameters.ServerAddress, "a", b.parameters.ServerAddress, "адрес и порт запуска сервиса HTTP-сервера")
	flags.StringVar(&b.parameters.DatabaseURI, "d", b.parameters.DatabaseURI, "адрес подключения к PostgreSQL")
	flags.StringVar(&b.parameters.PayPalAddress, "p", b.parameters.PayPalAddress, "адрес API платёжного провайдера")
	flags.StringVar(&b.parameters.RendererAddress, "r", b.parameters.RendererAddress, "адрес сервиса конвертации документов")
	flags.StringVar(&b.parameters.StorageAddress, "s", b.parameters.StorageAddress, "адрес файлового хранилища")
	b.err = flags.Parse(b.arguments)

	return b
}

func (b *Builder) Build() (Config, error) {
	return b, b.err
}

func (b *Builder) ServerAddress() string {
	return b.parameters.ServerAddress
}

func (b *Builder) DatabaseURI() string {
	return b.parameters.DatabaseURI
}

func (b *Builder) PayPalAddress() string {
	return b.parameters.PayPalAddress
}

func (b *Builder) PayPalClientID() string {
	return b.parameters.PayPalClientID
}

func (b *Builder) PayPalSecretKey() string {
	return b.parameters.PayPalSecretKey
}

func (b *Builder) StorageAddress() string {
	return b.parameters.StorageAddress
}

func (b *Builder) StorageServiceKey() string {
	return b.parameters.StorageServiceKey
}

func (b *Builder) StorageBucket() string {
	return b.parameters.StorageBucket
}

func (b *Builder) AuthAddress() string {
	return b.parameters.AuthAddress
}

func (b *Builder) RendererAddress() string {
	return b.parameters.RendererAddress
}

func (b *Builder) PaymentReturnAddress() string {
	return b.parameters.PaymentReturnAddress
}

func (b *Builder) ConversionPrice() float64 {
	return b.parameters.ConversionPrice
}

func (b *Builder) ConversionCurrency() string {
	return b.parameters.ConversionCurrency
}
