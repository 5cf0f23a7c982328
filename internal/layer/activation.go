package layer

// Activation names the per-layer activation function. The vocabulary is
// darknet's; the core only validates membership, computation is owned by the
// numeric backend consuming the graph.
type Activation string

// Activation functions.
const (
	ActivationLinear   Activation = "linear"
	ActivationLeaky    Activation = "leaky"
	ActivationReLU     Activation = "relu"
	ActivationReLIE    Activation = "relie"
	ActivationELU      Activation = "elu"
	ActivationSELU     Activation = "selu"
	ActivationGELU     Activation = "gelu"
	ActivationMish     Activation = "mish"
	ActivationHardMish Activation = "hard_mish"
	ActivationSwish    Activation = "swish"
	ActivationLogistic Activation = "logistic"
	ActivationLoggy    Activation = "loggy"
	ActivationTanh     Activation = "tanh"
	ActivationRamp     Activation = "ramp"
	ActivationPLSE     Activation = "plse"
	ActivationStair    Activation = "stair"
	ActivationHardTan  Activation = "hardtan"
	ActivationLHTan    Activation = "lhtan"
)

var activations = map[string]Activation{
	string(ActivationLinear):   ActivationLinear,
	string(ActivationLeaky):    ActivationLeaky,
	string(ActivationReLU):     ActivationReLU,
	string(ActivationReLIE):    ActivationReLIE,
	string(ActivationELU):      ActivationELU,
	string(ActivationSELU):     ActivationSELU,
	string(ActivationGELU):     ActivationGELU,
	string(ActivationMish):     ActivationMish,
	string(ActivationHardMish): ActivationHardMish,
	string(ActivationSwish):    ActivationSwish,
	string(ActivationLogistic): ActivationLogistic,
	string(ActivationLoggy):    ActivationLoggy,
	string(ActivationTanh):     ActivationTanh,
	string(ActivationRamp):     ActivationRamp,
	string(ActivationPLSE):     ActivationPLSE,
	string(ActivationStair):    ActivationStair,
	string(ActivationHardTan):  ActivationHardTan,
	string(ActivationLHTan):    ActivationLHTan,
}

// ParseActivation maps a config value to an Activation.
func ParseActivation(s string) (Activation, bool) {
	a, ok := activations[s]
	return a, ok
}
