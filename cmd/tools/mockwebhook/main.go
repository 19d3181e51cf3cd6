// Command mockwebhook signs and delivers a FenanPay-style webhook to a
// running bridge, for local end-to-end checks without the real provider.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/noah-isme/fenanpay-bridge/internal/payment"
)

func main() {
	var (
		url      = flag.String("url", "http://localhost:8080/webhooks/fenanpay", "webhook URL")
		secret   = flag.String("secret", os.Getenv("FENANPAY_WEBHOOK_SECRET"), "webhook secret (empty sends unsigned)")
		orderID  = flag.Int64("order", 1, "order id encoded in the unique id")
		ts       = flag.Int64("ts", time.Now().Unix(), "unix timestamp encoded in the unique id")
		uniqueID = flag.String("unique-id", "", "override the full paymentIntentUniqueId")
		status   = flag.String("status", "SUCCESS", "notification status (SUCCESS, PAID, COMPLETED, FAILED, EXPIRED)")
		dryRun   = flag.Bool("dry-run", false, "print the signed request without sending it")
	)
	flag.Parse()

	uid := *uniqueID
	if uid == "" {
		uid = strconv.FormatInt(*orderID, 10) + "_" + strconv.FormatInt(*ts, 10)
	}

	body, err := json.Marshal(map[string]string{
		"paymentIntentUniqueId": uid,
		"status":                *status,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Body: %s\n", body)
	req := resty.New().SetTimeout(10 * time.Second).R().
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if *secret != "" {
		sig := payment.ComputeSignature(*secret, body)
		fmt.Printf("%s: %s\n", payment.SignatureHeader, sig)
		req.SetHeader(payment.SignatureHeader, sig)
	}

	if *dryRun {
		fmt.Println("[dry-run] not sending")
		return
	}

	resp, err := req.Post(*url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send webhook: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Status: %d\nResponse: %s\n", resp.StatusCode(), resp.Body())
	if resp.StatusCode() != 200 {
		os.Exit(1)
	}
}
