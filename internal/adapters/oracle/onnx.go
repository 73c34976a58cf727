package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
)

// ONNXOptions configures an in-process token-classification model.
type ONNXOptions struct {
	SharedLibrary string   `mapstructure:"shared_library" yaml:"shared_library"`
	ModelPath     string   `mapstructure:"model_path" yaml:"model_path"`
	TokenizerPath string   `mapstructure:"tokenizer_path" yaml:"tokenizer_path"`
	Labels        []string `mapstructure:"labels" yaml:"labels"`
	Entity        string   `mapstructure:"entity" yaml:"entity"`
	MaxSeqLen     int      `mapstructure:"max_seq_len" yaml:"max_seq_len"`
}

// DefaultONNXLabels is the tag set of a MONEY-only tagger, in logit order.
var DefaultONNXLabels = []string{"O", "B-MONEY", "I-MONEY"}

var ortEnv struct {
	sync.Mutex
	refs int
}

// ONNXOracle runs a token-classification model through onnxruntime and
// decodes its BIO tags into entity substrings.
type ONNXOracle struct {
	session   *ort.DynamicAdvancedSession
	tk        *tokenizer.Tokenizer
	labels    []string
	entity    string
	maxSeqLen int
}

// NewONNXOracle loads the tokenizer and the model. Close releases the
// session and, for the last oracle, the runtime environment.
func NewONNXOracle(opts ONNXOptions) (*ONNXOracle, error) {
	if opts.ModelPath == "" || opts.TokenizerPath == "" {
		return nil, errors.New("onnx oracle: model_path and tokenizer_path are required")
	}
	if len(opts.Labels) == 0 {
		opts.Labels = DefaultONNXLabels
	}
	if opts.Entity == "" {
		opts.Entity = DefaultRemoteLabel
	}
	if opts.MaxSeqLen <= 0 {
		opts.MaxSeqLen = 256
	}

	tk, err := pretrained.FromFile(opts.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	if err := acquireEnvironment(opts.SharedLibrary); err != nil {
		return nil, err
	}

	session, err := ort.NewDynamicAdvancedSession(opts.ModelPath,
		[]string{"input_ids", "attention_mask"}, []string{"logits"}, nil)
	if err != nil {
		releaseEnvironment()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXOracle{
		session:   session,
		tk:        tk,
		labels:    opts.Labels,
		entity:    opts.Entity,
		maxSeqLen: opts.MaxSeqLen,
	}, nil
}

func acquireEnvironment(lib string) error {
	ortEnv.Lock()
	defer ortEnv.Unlock()
	if ortEnv.refs == 0 {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	ortEnv.refs++
	return nil
}

func releaseEnvironment() {
	ortEnv.Lock()
	defer ortEnv.Unlock()
	ortEnv.refs--
	if ortEnv.refs == 0 {
		_ = ort.DestroyEnvironment()
	}
}

// Recognize implements ports.Oracle.
func (o *ONNXOracle) Recognize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewOracleError("onnx", err)
	}

	enc, err := o.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, domain.NewOracleError("onnx", fmt.Errorf("tokenize: %w", err))
	}

	ids, mask, offsets := enc.GetIds(), enc.GetAttentionMask(), enc.GetOffsets()
	if len(ids) > o.maxSeqLen {
		ids, mask, offsets = ids[:o.maxSeqLen], mask[:o.maxSeqLen], offsets[:o.maxSeqLen]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	tags, err := o.tag(ids, mask)
	if err != nil {
		return nil, domain.NewOracleError("onnx", err)
	}
	return decodeBIO(text, offsets, tags, o.entity), nil
}

func (o *ONNXOracle) tag(ids, mask []int) ([]string, error) {
	seq := int64(len(ids))
	shape := ort.NewShape(1, seq)

	inputIDs, err := ort.NewTensor(shape, toInt64(ids))
	if err != nil {
		return nil, err
	}
	defer inputIDs.Destroy()

	attention, err := ort.NewTensor(shape, toInt64(mask))
	if err != nil {
		return nil, err
	}
	defer attention.Destroy()

	logits, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seq, int64(len(o.labels))))
	if err != nil {
		return nil, err
	}
	defer logits.Destroy()

	if err := o.session.Run([]ort.Value{inputIDs, attention}, []ort.Value{logits}); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}

	data := logits.GetData()
	width := len(o.labels)
	tags := make([]string, len(ids))
	for i := range tags {
		tags[i] = o.labels[argmax(data[i*width:(i+1)*width])]
	}
	return tags, nil
}

// Close releases the model session.
func (o *ONNXOracle) Close() error {
	err := o.session.Destroy()
	releaseEnvironment()
	return err
}

func toInt64(v []int) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return out
}
