package pipeline

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/metrics"
	"github.com/rtnapps/Loyalty-Program/internal/repository"
)

var enginelog = logging.GetLogger("decision-pipeline")

// Engine orchestrates S1 through S7 in the fixed dependency order spec.md
// §2 mandates: Persistence -> S1 -> S2 -> S3 -> S4 -> S5 -> S6 -> S7. No
// stage reads output produced later than itself.
type Engine struct {
	stage1 *Stage1
	stage2 *Stage2
	stage3 *Stage3
	stage4 *Stage4
	stage5 *Stage5
	stage6 *Stage6
	stage7 *Stage7

	transactions *repository.TransactionRepository
	metrics      *metrics.PipelineMetrics
}

// NewEngine assembles the pipeline from its per-stage dependencies.
func NewEngine(stage1 *Stage1, stage2 *Stage2, stage3 *Stage3, stage4 *Stage4, stage5 *Stage5, stage6 *Stage6, stage7 *Stage7, transactions *repository.TransactionRepository, m *metrics.PipelineMetrics) *Engine {
	return &Engine{
		stage1: stage1, stage2: stage2, stage3: stage3, stage4: stage4,
		stage5: stage5, stage6: stage6, stage7: stage7,
		transactions: transactions, metrics: m,
	}
}

// Decide runs one request through the full pipeline and returns the POS
// response. now is the injectable date provider spec.md §6 requires.
func (e *Engine) Decide(ctx context.Context, req Request, now time.Time) (Response, error) {
	start := time.Now()
	dc := NewDecisionContext(req, now)
	outcome := "error"
	defer func() {
		if e.metrics != nil {
			e.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
			e.metrics.RequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
			e.metrics.ActiveLIDLocks.Set(float64(e.stage1.ActiveLocks()))
		}
	}()

	if err := e.stage1.Run(ctx, dc); err != nil {
		return e.abort(dc, "s1_lid", err)
	}
	if e.metrics != nil && dc.IsManagerCard {
		e.metrics.ManagerCardDetectedTotal.Inc()
	}

	if err := e.stage2.Run(ctx, dc); err != nil {
		return e.abort(dc, "s2_age", err)
	}

	if err := e.stage3.Run(ctx, dc); err != nil {
		return e.abort(dc, "s3_basket", err)
	}
	if e.metrics != nil && len(dc.UnknownUPCs) > 0 {
		e.metrics.UnknownUPCLinesTotal.Add(float64(len(dc.UnknownUPCs)))
	}

	if err := e.stage4.Run(ctx, dc); err != nil {
		return e.abort(dc, "s4_discount_typer", err)
	}

	e.stage5.Run(dc)
	e.stage6.Run(dc)
	resp := e.stage7.Run(dc)

	if err := e.persistTransaction(ctx, dc); err != nil {
		return e.abort(dc, "persistence", err)
	}

	if e.metrics != nil {
		for _, r := range dc.Rewards {
			e.metrics.RewardsIssuedTotal.Inc()
			cents, _ := r.Value.Mul(decimal.NewFromInt(100)).Float64()
			e.metrics.RewardValueTotal.Add(cents)
		}
	}

	outcome = dc.Outcome()
	return resp, nil
}

func (e *Engine) abort(dc *DecisionContext, stage string, err error) (Response, error) {
	if e.metrics != nil {
		e.metrics.StageRejections.WithLabelValues(stage).Inc()
		if fault, ok := err.(*apperr.InfraFault); ok {
			e.metrics.InfraFaultsTotal.WithLabelValues(string(fault.Code)).Inc()
		}
	}
	enginelog.Error("pipeline aborted", "stage", stage, "transaction_id", dc.Request.TransactionID, "error", err)
	return Response{}, err
}

func (e *Engine) persistTransaction(ctx context.Context, dc *DecisionContext) error {
	txn := dc.toTransactionModel()
	if err := e.transactions.Create(ctx, &txn); err != nil {
		return apperr.DatabaseUnavailable("pipeline.persist_transaction", err)
	}
	return nil
}
