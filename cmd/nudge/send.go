package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/almasov/nudge/internal/cli"
	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/push"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send CLIENT_CODE",
		Short: "Compute and deliver one client's recommendation over FCM",
		Args:  cobra.ExactArgs(1),
		RunE:  runSend,
	}
	inputFlags(cmd)
	cmd.Flags().String("fcm-key", "", "FCM server key (or NUDGE_FCM_KEY)")
	_ = viper.BindPFlag("fcm.key", cmd.Flags().Lookup("fcm-key"))
	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clientCode := args[0]

	clients, transactions, transfers, err := loadInputs(cmd)
	if err != nil {
		return err
	}
	profile, err := requireClient(clients, clientCode)
	if err != nil {
		return err
	}
	if profile.FCMToken == "" {
		return fmt.Errorf("client %s has no fcm_token in the clients file", clientCode)
	}

	_, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}

	rec, err := pipeline.Recommend(ctx, profile, transactions[clientCode], transfers[clientCode])
	if err != nil {
		return err
	}

	sender, err := push.NewFCMClient(viper.GetString("fcm.key"), 10*time.Second)
	if err != nil {
		return err
	}

	best := rec.Selection.Best()
	msg := push.Message{
		Token: profile.FCMToken,
		Title: push.DefaultTitle,
		Body:  rec.Notification.Text,
		Data: map[string]string{
			"client_id": rec.ClientCode,
			"product":   string(best.Product),
			"value":     strconv.FormatFloat(best.Benefit, 'f', 2, 64),
		},
	}

	err = common.WithRetry(ctx, func() error {
		return sender.Send(ctx, msg)
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Second})
	if err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("notification delivered to client %s (%s)",
		clientCode, best.Product.DisplayName())))
	return nil
}
