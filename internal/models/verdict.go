package models

const (
  VerdictInStock    Verdict = "in_stock"
  VerdictOutOfStock Verdict = "out_of_stock"
  VerdictUnknown    Verdict = "unknown"
)

type Verdict = string

const (
  DecisionSend  NotifyDecision = "send"
  DecisionClear NotifyDecision = "clear"
  DecisionNone  NotifyDecision = "none"
)

type NotifyDecision = string
