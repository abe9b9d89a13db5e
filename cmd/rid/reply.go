package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rid/internal/reply"
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Encode or decode reply wire strings",
	Long: `Reply converts between the textual form a reply is posted in
("<header>" or "<header>^<payload>") and its slot, request id and payload.`,
}

var replyEncodeCmd = &cobra.Command{
	Use:   "encode --slot N --req ID [--payload TEXT]",
	Short: "Render a reply in wire form",
	Args:  cobra.NoArgs,
	RunE:  runReplyEncode,
}

var replyDecodeCmd = &cobra.Command{
	Use:   "decode <wire>",
	Short: "Split a wire string into slot, request id and payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplyDecode,
}

func init() {
	replyEncodeCmd.Flags().Int("slot", 0, "reply variant slot")
	replyEncodeCmd.Flags().Uint64("req", 0, "request id")
	replyEncodeCmd.Flags().String("payload", "", "string payload (omitted when not set)")
	replyDecodeCmd.Flags().String("format", "pretty", "output format (pretty|json)")

	replyCmd.AddCommand(replyEncodeCmd)
	replyCmd.AddCommand(replyDecodeCmd)
}

func runReplyEncode(cmd *cobra.Command, _ []string) error {
	slot, err := cmd.Flags().GetInt("slot")
	if err != nil {
		return fmt.Errorf("failed to get slot flag: %w", err)
	}
	req, err := cmd.Flags().GetUint64("req")
	if err != nil {
		return fmt.Errorf("failed to get req flag: %w", err)
	}
	payload, err := cmd.Flags().GetString("payload")
	if err != nil {
		return fmt.Errorf("failed to get payload flag: %w", err)
	}
	h, err := reply.NewHeader(slot, req)
	if err != nil {
		return err
	}
	r := reply.Reply{
		Header:     h,
		Payload:    payload,
		HasPayload: cmd.Flags().Changed("payload"),
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Encode(r))
	return err
}

type replyPayload struct {
	Header  int64   `json:"header"`
	Slot    uint32  `json:"slot"`
	ReqID   uint32  `json:"req_id"`
	Payload *string `json:"payload,omitempty"`
}

func runReplyDecode(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	r, err := reply.Decode(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		fmt.Fprintf(out, "slot:    %d\nreq_id:  %d\n", r.Slot, r.ReqID)
		if r.HasPayload {
			fmt.Fprintf(out, "payload: %q\n", r.Payload)
		}
		return nil
	case "json":
		p := replyPayload{Header: r.Pack(), Slot: r.Slot, ReqID: r.ReqID}
		if r.HasPayload {
			p.Payload = &r.Payload
		}
		return json.NewEncoder(out).Encode(p)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
