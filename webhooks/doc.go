// Package webhooks delivers frozen event payloads to registered endpoints.
// It signs the body with the endpoint secret, records every attempt on the
// delivery row before classifying the outcome, and reschedules failed
// attempts with exponential backoff until the attempt budget runs out.
package webhooks
