package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"multisigengine/config"
	"multisigengine/crypto"
	"multisigengine/multisig"
	"multisigengine/observability/logging"
	"multisigengine/storage"
)

// multisigd is an illustrative host binary around package multisig: it owns
// a LevelDB-backed store and exposes the engine's invocation surface as CLI
// subcommands. It does not implement a real downstream instruction runtime
// (that is the host's own ledger, external to this engine); execute simply
// logs each prepared instruction it would have dispatched.
func main() {
	configFile := flag.String("config", "./multisigd.toml", "Path to the configuration file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	env := strings.TrimSpace(os.Getenv("MULTISIGD_ENV"))
	logger := logging.Setup("multisigd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("config loaded", "data_dir", cfg.DataDir, logging.MaskField("operator_key", cfg.OperatorKey))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to prepare data directory", slog.Any("error", err))
		os.Exit(1)
	}
	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	engine := multisig.NewEngine(multisig.NewManager(db), &loggingEmitter{log: logger}, logger)

	if err := dispatch(engine, cfg, logger, args[0], args[1:]); err != nil {
		logger.Error("command failed", slog.String("command", args[0]), slog.Any("error", err))
		os.Exit(1)
	}
}

func dispatch(engine *multisig.Engine, cfg *config.Config, logger *slog.Logger, cmd string, rest []string) error {
	switch cmd {
	case "generate-key":
		return generateKey(logger, rest)
	case "save-keystore":
		return saveKeystore(logger, rest)
	case "load-keystore":
		return loadKeystore(logger, rest)
	case "verify-owner":
		return verifyOwner(engine, rest)
	case "find-identity":
		return findIdentity(rest)
	case "create":
		return createMultisig(engine, rest)
	case "propose":
		return proposeTransaction(engine, rest)
	case "approve":
		return approveTransaction(engine, rest)
	case "cancel":
		return cancelTransaction(engine, rest)
	case "execute":
		return executeTransaction(engine, logger, rest)
	case "change-threshold":
		return changeThreshold(engine, rest)
	case "set-owners":
		return setOwners(engine, rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage() {
	fmt.Println(`multisigd commands:
  generate-key
  save-keystore     <private-key-hex> <keystore-path> <passphrase>
  load-keystore     <keystore-path> <passphrase>
  verify-owner      <multisig-address-hex> <keystore-path> <passphrase>
  find-identity     <multisig-address-hex>
  create            <multisig-address-hex> <threshold> <owner-hex> [owner-hex...]
  propose           <tx-address-hex> <multisig-address-hex> <proposer-hex>
  approve           <tx-address-hex> <approver-hex>
  cancel            <tx-address-hex> <executor-hex>
  execute           <tx-address-hex> <executor-hex>
  change-threshold  <multisig-address-hex> <caller-hex> <new-threshold>
  set-owners        <multisig-address-hex> <caller-hex> <owner-hex> [owner-hex...]`)
}

func generateKey(logger *slog.Logger, _ []string) error {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	addr := key.PubKey().Address()
	logger.Info("generated operator key", logging.MaskField("private_key", hex.EncodeToString(key.Bytes())),
		"address", addr.String())
	fmt.Printf("private_key=%s\naddress=%s\n", hex.EncodeToString(key.Bytes()), addr.String())
	return nil
}

func saveKeystore(logger *slog.Logger, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: save-keystore <private-key-hex> <keystore-path> <passphrase>")
	}
	keyBytes, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return fmt.Errorf("invalid private key hex: %w", err)
	}
	key, err := crypto.PrivateKeyFromBytes(keyBytes)
	if err != nil {
		return err
	}
	if err := crypto.SaveToKeystore(args[1], key, args[2]); err != nil {
		return err
	}
	logger.Info("saved keystore", "path", args[1], "address", key.PubKey().Address().String(),
		logging.MaskField("passphrase", args[2]))
	fmt.Printf("saved keystore=%s address=%s\n", args[1], key.PubKey().Address().String())
	return nil
}

func loadKeystore(logger *slog.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: load-keystore <keystore-path> <passphrase>")
	}
	key, err := crypto.LoadFromKeystore(args[0], args[1])
	if err != nil {
		return err
	}
	logger.Info("loaded keystore", "path", args[0], "address", key.PubKey().Address().String(),
		logging.MaskField("passphrase", args[1]))
	fmt.Printf("address=%s\n", key.PubKey().Address().String())
	return nil
}

// verifyOwner decrypts a keystore file and checks the resulting key against
// a multisig's CURRENT owner set. Owners are raw public keys, not on-chain
// identities, so this is an operator-side convenience, not an authority
// check the engine itself performs — propose/approve/execute all take the
// caller's public key directly and never touch a keystore.
func verifyOwner(engine *multisig.Engine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: verify-owner <multisig-address-hex> <keystore-path> <passphrase>")
	}
	msAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	ms, err := engine.GetMultisig(msAddr)
	if err != nil {
		return err
	}
	key, err := crypto.LoadFromKeystore(args[1], args[2])
	if err != nil {
		return err
	}
	owner, err := multisig.ToPubkey(key.PubKey().Address())
	if err != nil {
		return err
	}
	idx, ok := multisig.OwnerIndex(ms.Owners, owner)
	if !ok {
		return fmt.Errorf("decrypted key %s is not a current owner of multisig %s", owner.String(), msAddr.String())
	}
	fmt.Printf("owner=%s index=%d\n", owner.String(), idx)
	return nil
}

func findIdentity(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: find-identity <multisig-address-hex>")
	}
	addr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	identity, nonce, ok := multisig.FindSigningIdentity(addr)
	if !ok {
		return fmt.Errorf("no valid nonce found for %s", args[0])
	}
	fmt.Printf("signing_identity=%s\nnonce=%d\n", identity.String(), nonce)
	return nil
}

func createMultisig(engine *multisig.Engine, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: create <multisig-address-hex> <threshold> <owner-hex> [owner-hex...]")
	}
	addr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	threshold, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid threshold: %w", err)
	}
	owners, err := parsePubkeys(args[2:])
	if err != nil {
		return err
	}
	_, nonce, ok := multisig.FindSigningIdentity(addr)
	if !ok {
		return fmt.Errorf("no valid signing identity nonce found for %s", args[0])
	}
	rec, err := engine.CreateMultisig(addr, owners, threshold, nonce)
	if err != nil {
		return err
	}
	fmt.Printf("created multisig=%s owners=%d threshold=%d signing_identity=%s\n",
		rec.Address.String(), len(rec.Owners), rec.Threshold, rec.SigningIdentity.String())
	return nil
}

func proposeTransaction(engine *multisig.Engine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: propose <tx-address-hex> <multisig-address-hex> <proposer-hex>")
	}
	txAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	msAddr, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	proposer, err := parsePubkey(args[2])
	if err != nil {
		return err
	}
	// No concrete downstream instruction is supplied on this CLI path; an
	// empty self-referential instruction lets an operator exercise propose
	// and approve for a placeholder config-mutation batch.
	rec, err := engine.Propose(txAddr, msAddr, proposer, []multisig.Instruction{{ProgramID: msAddr}}, multisig.Pubkey{})
	if err != nil {
		return err
	}
	fmt.Printf("proposed transaction=%s multisig=%s\n", rec.Address.String(), rec.MultisigAddress.String())
	return nil
}

func approveTransaction(engine *multisig.Engine, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: approve <tx-address-hex> <approver-hex>")
	}
	txAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	approver, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	rec, err := engine.Approve(txAddr, approver)
	if err != nil {
		return err
	}
	fmt.Printf("approvals=%d\n", multisig.CountApprovals(rec.Signers))
	return nil
}

func cancelTransaction(engine *multisig.Engine, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: cancel <tx-address-hex> <executor-hex>")
	}
	txAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	executor, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	return engine.Cancel(txAddr, executor, multisig.Pubkey{})
}

func executeTransaction(engine *multisig.Engine, logger *slog.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: execute <tx-address-hex> <executor-hex>")
	}
	txAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	executor, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	rec, err := engine.Execute(txAddr, executor, executor, &logInvoker{log: logger})
	if err != nil {
		return err
	}
	fmt.Printf("executed transaction=%s refundee=%s\n", rec.Address.String(), rec.Refundee.String())
	return nil
}

func changeThreshold(engine *multisig.Engine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: change-threshold <multisig-address-hex> <caller-hex> <new-threshold>")
	}
	msAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	caller, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	newThreshold, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid threshold: %w", err)
	}
	rec, err := engine.ChangeThreshold(msAddr, caller, newThreshold)
	if err != nil {
		return err
	}
	fmt.Printf("threshold=%d\n", rec.Threshold)
	return nil
}

func setOwners(engine *multisig.Engine, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: set-owners <multisig-address-hex> <caller-hex> <owner-hex> [owner-hex...]")
	}
	msAddr, err := parsePubkey(args[0])
	if err != nil {
		return err
	}
	caller, err := parsePubkey(args[1])
	if err != nil {
		return err
	}
	owners, err := parsePubkeys(args[2:])
	if err != nil {
		return err
	}
	rec, err := engine.SetOwners(msAddr, caller, owners)
	if err != nil {
		return err
	}
	fmt.Printf("owners=%d threshold=%d owner_set_seqno=%d\n", len(rec.Owners), rec.Threshold, rec.OwnerSetSeqno)
	return nil
}

func parsePubkey(s string) (multisig.Pubkey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return multisig.Pubkey{}, fmt.Errorf("invalid hex key %q: %w", s, err)
	}
	if len(b) != 20 {
		return multisig.Pubkey{}, fmt.Errorf("key %q must decode to 20 bytes, got %d", s, len(b))
	}
	var p multisig.Pubkey
	copy(p[:], b)
	return p, nil
}

func parsePubkeys(ss []string) ([]multisig.Pubkey, error) {
	out := make([]multisig.Pubkey, len(ss))
	for i, s := range ss {
		p, err := parsePubkey(s)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// logInvoker stands in for the host's real instruction dispatch: it logs
// what it would have invoked and always succeeds. A production host
// replaces this with its own ledger/program runtime.
type logInvoker struct {
	log *slog.Logger
}

func (i *logInvoker) Invoke(signingIdentity multisig.Pubkey, ins multisig.Instruction) error {
	i.log.Info("dispatching inner instruction",
		"signing_identity", signingIdentity.String(),
		"program", ins.ProgramID.String(),
		"accounts", len(ins.Accounts),
		"data_len", len(ins.Data))
	return nil
}

// loggingEmitter forwards every engine event to structured logging. A real
// deployment would fan these out to an indexer or RPC stream instead.
type loggingEmitter struct {
	log *slog.Logger
}

func (e *loggingEmitter) Emit(ev multisig.Event) {
	e.log.Info("multisig event", "type", ev.EventType())
}
