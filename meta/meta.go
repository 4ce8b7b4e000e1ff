// meta/meta.go
package meta

// Board defaults.
const (
	BOARD_WIDTH  = 6
	BOARD_HEIGHT = 6
	N_IN_ROW     = 4
)

// PLAYOUTS is the number of MCTS simulations per move for the trained agent.
const PLAYOUTS = 400

// C_PUCT weighs the prior term of the PUCT score.
const C_PUCT = 5.0

// TEMPERATURE controls self-play exploration.
const TEMPERATURE = 1.0

// Self-play root noise.
const (
	DIRICHLET_ALPHA = 0.3
	NOISE_EPSILON   = 0.25
)

// Policy update.
const (
	LEARN_RATE         = 2e-3
	BUFFER_SIZE        = 10000
	BATCH_SIZE         = 512
	EPOCHS             = 5
	KL_TARGET          = 0.02
	MIN_LR_MULTIPLIER  = 0.1
	MAX_LR_MULTIPLIER  = 10.0
	LR_MULTIPLIER_STEP = 1.5
)

// Iteration control.
const (
	PLAY_BATCH_SIZE = 1
	GAME_BATCH_NUM  = 1500
	CHECK_FREQ      = 50
)

// Evaluation and curriculum.
const (
	EVAL_GAMES            = 10
	BASELINE_PLAYOUTS     = 1000
	BASELINE_STEP         = 1000
	MAX_BASELINE_PLAYOUTS = 50000
)

// MAX_ROLLOUT bounds the random playout of the pure MCTS baseline.
const MAX_ROLLOUT = 1000

// L2_PENALTY is the weight decay applied by the estimator's train step.
const L2_PENALTY = 1e-4

// Output locations.
const (
	MODEL_DIR = "model"
	INFO_DIR  = "info"
	STATE_DIR = "state"
)

const VERSION = "0.3.0"
