/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisstd/store"
	"github.com/mikeb26/swisstd/swiss"
)

type SwissSubCommand string

const (
	SwissAboutCmd     SwissSubCommand = "about"
	SwissHelpCmd      SwissSubCommand = "help"
	SwissListCmd      SwissSubCommand = "list"
	SwissPairingsCmd  SwissSubCommand = "pairings"
	SwissStandingsCmd SwissSubCommand = "standings"
	SwissFinalCmd     SwissSubCommand = "final"
)

func sessionOptions(action string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "session",
			Description: fmt.Sprintf("Session id to %v (as returned by list)", action),
			Required:    true,
		},
		broadcastOption(),
	}
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func swissCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(SwissCmd),
		Description: "Swiss session commands; try /swiss help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHelpCmd),
				Description: "Show usage for swiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissAboutCmd),
				Description: "Show information about swisstd",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissListCmd),
				Description: "List stored sessions",
				Options: []*discordgo.ApplicationCommandOption{
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissPairingsCmd),
				Description: "Get the latest pairings for a session",
				Options:     sessionOptions("show"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStandingsCmd),
				Description: "Get current standings for a session",
				Options:     sessionOptions("show"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissFinalCmd),
				Description: "Get placements for a session",
				Options:     sessionOptions("rank"),
			},
		},
	}
}

func (b *bot) swissCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := b.swissHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := b.swissSubCmdHdlrs[SwissSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions pulls the session id and broadcast flag from the first
// sub-command's options.
func subOptions(inter *discordgo.Interaction) (string, bool) {
	data := inter.ApplicationCommandData()
	var sessionID string
	broadcast := false // default
	if len(data.Options) == 0 {
		return sessionID, broadcast
	}
	for _, opt := range data.Options[0].Options {
		if opt.Name == "session" {
			sessionID = strings.TrimSpace(opt.StringValue())
		} else if opt.Name == "broadcast" {
			broadcast = opt.BoolValue()
		}
	}
	return sessionID, broadcast
}

//go:embed about.txt
var aboutText string

func (b *bot) swissAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(aboutText)
	return resp
}

//go:embed help.md
var helpText string

func (b *bot) swissHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func (b *bot) swissListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	_, broadcast := subOptions(inter)

	ids, err := b.store.List(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing sessions: %v", err)
		b.log.Warn("discordbot.list: " + resp.Data.Content)
		return resp
	}
	if len(ids) == 0 {
		resp.Data.Content = "No sessions found."
		return resp
	}
	snaps, err := store.LoadAll(ctx, b.store, ids)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading sessions: %v", err)
		b.log.Warn("discordbot.list: " + resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	for _, snap := range snaps {
		status := fmt.Sprintf("next round %v", snap.CurrentRound)
		if snap.Terminated != "" {
			status = fmt.Sprintf("finished after %v rounds", len(snap.RoundHistory))
		}
		sb.WriteString(fmt.Sprintf("- `%v` %v competitors, %v\n", snap.SessionID,
			len(snap.Competitors), status))
	}
	sb.WriteString("\nRun /swiss standings <session> to see a session\n")
	resp.Data.Content = truncateContent(sb.String())
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// sessionView restores the requested session and renders it with build.
func (b *bot) sessionView(ctx context.Context, inter *discordgo.Interaction,
	what string, build func(*swiss.Session) string) *discordgo.InteractionResponse {

	resp := newResponse()
	sessionID, broadcast := subOptions(inter)
	if sessionID == "" {
		resp.Data.Content = "Please provide a session ID."
		b.log.Info("discordbot." + what + ": " + resp.Data.Content)
		return resp
	}

	snap, err := b.store.Load(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		resp.Data.Content = fmt.Sprintf("No session %v found.", sessionID)
		return resp
	}
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching %v for session %v: %v",
			what, sessionID, err)
		b.log.Warn("discordbot." + what + ": " + resp.Data.Content)
		return resp
	}
	s, err := swiss.Restore(snap, swiss.Config{})
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error restoring session %v: %v",
			sessionID, err)
		b.log.Warn("discordbot." + what + ": " + resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(build(s)))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func (b *bot) swissPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.sessionView(ctx, inter, "pairings", swiss.BuildPairingsOutput)
}

func (b *bot) swissStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.sessionView(ctx, inter, "standings", swiss.BuildStandingsOutput)
}

func (b *bot) swissFinalCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.sessionView(ctx, inter, "final", swiss.BuildPlacementsOutput)
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
