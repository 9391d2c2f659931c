package cli

import (
	"context"
	"crypto/elliptic"
	"fmt"
	"net/http"

	"github.com/alecthomas/kingpin"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3"

	"github.com/privmind/therapy-svc/internal/config"
	"github.com/privmind/therapy-svc/internal/core"
	"github.com/privmind/therapy-svc/internal/fhe"
	"github.com/privmind/therapy-svc/internal/ledger"
	"github.com/privmind/therapy-svc/internal/secret"
	"github.com/privmind/therapy-svc/internal/timer"
)

func Run(args []string) bool {
	defer func() {
		if rvr := recover(); rvr != nil {
			logan.New().WithRecover(rvr).Error("app panicked")
		}
	}()

	cfg := config.New(kv.MustFromEnv())
	log := cfg.Log()

	app := kingpin.New("therapy-svc", "")
	runCmd := app.Command("run", "run command")

	// Running full service
	serviceCmd := runCmd.Command("service", "run service")

	// Probing registry contract availability
	checkCmd := runCmd.Command("check", "run availability check")

	// Running wallet key-pair generation
	prvgenCmd := app.Command("prvgen", "run prvgen")

	cmd, err := app.Parse(args[1:])
	if err != nil {
		log.WithError(err).Error("failed to parse arguments")
		return false
	}

	switch cmd {
	case serviceCmd.FullCommand():
		err = runService(cfg)
	case checkCmd.FullCommand():
		err = runCheck(cfg)
	case prvgenCmd.FullCommand():
		keypair, _ := crypto.GenerateKey()
		fmt.Println("Address: " + crypto.PubkeyToAddress(keypair.PublicKey).Hex())
		fmt.Println("Pub: " + hexutil.Encode(elliptic.Marshal(crypto.S256(), keypair.X, keypair.Y)))
		fmt.Println("Prv: " + hexutil.Encode(crypto.FromECDSA(keypair)))
	default:
		log.Errorf("unknown command %s", cmd)
		return false
	}

	if err != nil {
		log.WithError(err).Error("failed to exec cmd")
		return false
	}
	return true
}

func runService(cfg config.Config) error {
	ctx := context.Background()
	log := cfg.Log()
	eth := cfg.Ethereum()

	reader := ledger.NewClient(eth.Client, eth.ContractAddr, log)

	var writer core.Writer
	walletSecret, err := walletStorage(cfg).GetWalletSecret()
	switch err {
	case nil:
		signer, err := ledger.NewSigner(reader, walletSecret.PrivateKey(), eth.ChainID, log)
		if err != nil {
			return err
		}
		writer = signer
		log.Infof("[Service] Submitting as %s", signer.Account().Hex())
	case secret.ErrNoWalletKey:
		log.Warn("[Service] No wallet key configured, running read-only")
	default:
		return err
	}

	fheClient := fhe.NewRelayer(cfg.Fhe().Addr, cfg.Fhe().RequestTimeout, log)
	if err := fheClient.Initialize(ctx); err != nil {
		return err
	}

	controller := core.NewController(reader, writer, fheClient, eth.ContractAddr, eth.SubmitMirror, log)
	if err := controller.Refresh(ctx); err != nil {
		log.WithError(err).Error("[Service] Initial session load failed")
	}

	tmr := timer.NewTimer(log)
	timer.NewBlockSubscriber(tmr, eth.Client, cfg.Session().PollInterval, log).Run(ctx)
	tmr.SubscribeToBlocks("session-refresher", func(uint64) error {
		return controller.Refresh(ctx)
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		available, err := reader.IsAvailable(r.Context())
		if err != nil || !available {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return http.Serve(cfg.Listener(), mux)
}

func runCheck(cfg config.Config) error {
	eth := cfg.Ethereum()
	reader := ledger.NewClient(eth.Client, eth.ContractAddr, cfg.Log())

	available, err := reader.IsAvailable(context.Background())
	if err != nil {
		return err
	}

	cfg.Log().Infof("[Check] Registry contract %s available: %t", eth.ContractAddr.Hex(), available)
	return nil
}

func walletStorage(cfg config.Config) secret.Storage {
	if config.VaultEnabled() {
		return secret.NewVaultStorage(cfg)
	}
	return secret.NewLocalStorage(cfg)
}
