/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisstd/internal/config"
	"github.com/mikeb26/swisstd/internal/logging"
	"github.com/mikeb26/swisstd/store"
)

type TopLevelCommand string

const (
	SwissCmd TopLevelCommand = "swiss"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

// bot serves discord interactions from the configured session store.
type bot struct {
	pubKey ed25519.PublicKey
	store  store.Store
	log    logging.Logger

	topLevelCmdHdlrs map[TopLevelCommand]CmdHandler
	swissSubCmdHdlrs map[SwissSubCommand]CmdHandler
}

func newBot(pubKey ed25519.PublicKey, st store.Store, log logging.Logger) *bot {
	b := &bot{
		pubKey: pubKey,
		store:  st,
		log:    log,
	}
	b.topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
		SwissCmd: b.swissCmdHandler,
	}
	b.swissSubCmdHdlrs = map[SwissSubCommand]CmdHandler{
		SwissAboutCmd:     b.swissAboutCmdHandler,
		SwissHelpCmd:      b.swissHelpCmdHandler,
		SwissListCmd:      b.swissListCmdHandler,
		SwissPairingsCmd:  b.swissPairingsCmdHandler,
		SwissStandingsCmd: b.swissStandingsCmdHandler,
		SwissFinalCmd:     b.swissFinalCmdHandler,
	}
	return b
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		b.log.Warn("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.log.Warn("discordbot.int: failed to read request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		b.log.Warn("discordbot.int: failed to unmarshal interaction", "error", err,
			"body", string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			b.topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		b.log.Warn("discordbot.int: unimplemented interaction type",
			"type", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		b.log.Error("discordbot.int: failed to marshal resp", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		b.log.Warn("discordbot.int: failed to write resp", "error", err)
	}
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand,
	lastHash string, log logging.Logger) bool {

	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Error("discordbot.reg: failed to marshal cmd", "error", err)
		return false
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	hexString := hex.EncodeToString(hasher.Sum(nil))

	shouldUpdate := (hexString != lastHash)
	if shouldUpdate {
		log.Info("discordbot.reg: updating cmd reg; please update DISCORD_CMD_HASH",
			"hash", hexString)
	}

	return shouldUpdate
}

func registerSlashCommands(client *discordgo.Session, appID string, cmdID string,
	lastHash string, log logging.Logger) {

	cmd := swissCommand()
	if cmdID == "" {
		created, err := client.ApplicationCommandCreate(appID, "", cmd)
		if err != nil {
			log.Error("discordbot.reg: failed to register", "cmd", cmd.Name,
				"error", err)
			return
		}
		log.Info("discordbot.reg: registered", "cmd", created.Name,
			"cmdID", created.ID)
	} else if shouldUpdateCmdRegistration(cmd, lastHash, log) {
		updated, err := client.ApplicationCommandEdit(appID, "", cmdID, cmd)
		if err != nil {
			log.Error("discordbot.reg: failed to update", "cmd", cmd.Name,
				"error", err)
			return
		}
		log.Info("discordbot.reg: updated", "cmd", updated.Name, "cmdID", updated.ID)
	}
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		fmt.Fprintf(os.Stderr, "discordbot: %v must be set\n", name)
		os.Exit(1)
	}
	return v
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("SWISSTD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}

	pubKeyBytes, err := hex.DecodeString(mustEnv("DISCORD_PUBLIC_KEY"))
	if err != nil {
		log.Error("discordbot.main: failed to parse public key", "error", err)
		os.Exit(1)
	}
	client, err := discordgo.New("Bot " + mustEnv("DISCORD_BOT_TOKEN"))
	if err != nil {
		log.Error("discordbot.main: failed to initialize discord client",
			"error", err)
		os.Exit(1)
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error("discordbot.main: failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	go registerSlashCommands(client, mustEnv("DISCORD_APP_ID"),
		os.Getenv("DISCORD_CMD_ID"), os.Getenv("DISCORD_CMD_HASH"), log)

	addr := os.Getenv("DISCORD_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Info("discordbot.main: starting server", "host", hostname, "addr", addr)

	b := newBot(ed25519.PublicKey(pubKeyBytes), st, log)
	http.HandleFunc("/DiscordBot/Interaction", b.interactionHandler)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error("discordbot.main: serve failed", "error", err)
	}

	log.Info("discordbot.main: exiting")
}
