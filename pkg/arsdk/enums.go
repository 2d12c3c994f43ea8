package arsdk

import (
	"fmt"
	"strings"
)

// JumpKind selects the jump trajectory.
type JumpKind uint32

const (
	JumpLong JumpKind = 0 // low, forward jump
	JumpHigh JumpKind = 1 // tall, in-place jump
)

var jumpKindNames = []string{"long", "high"}

// ParseJumpKind maps a jump name to its wire value.
func ParseJumpKind(name string) (JumpKind, error) {
	for i, n := range jumpKindNames {
		if n == name {
			return JumpKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown jump type %q (valid: long, high)", name)
}

func (k JumpKind) String() string {
	if int(k) < len(jumpKindNames) {
		return jumpKindNames[k]
	}
	return fmt.Sprintf("jump(%d)", uint32(k))
}

// Posture is one of the robot's physical stances.
type Posture uint32

const (
	PostureStanding Posture = 0 // wheels down, normal driving
	PostureJumper   Posture = 1 // leaning back, jump ready
	PostureKicker   Posture = 2 // leaning forward, kick ready
)

var postureNames = []string{"standing", "jumper", "kicker"}

// ParsePosture maps a posture name to its wire value.
func ParsePosture(name string) (Posture, error) {
	for i, n := range postureNames {
		if n == name {
			return Posture(i), nil
		}
	}
	return 0, fmt.Errorf("unknown posture %q (valid: standing, jumper, kicker)", name)
}

func (p Posture) String() string {
	if int(p) < len(postureNames) {
		return postureNames[p]
	}
	return fmt.Sprintf("posture(%d)", uint32(p))
}

// Animation is one of the robot's built-in animation routines.
type Animation uint32

const (
	AnimationStop          Animation = 0
	AnimationSpin          Animation = 1
	AnimationTap           Animation = 2
	AnimationSlowShake     Animation = 3
	AnimationMetronome     Animation = 4
	AnimationOndulation    Animation = 5
	AnimationSpinJump      Animation = 6
	AnimationSpinToPosture Animation = 7
	AnimationSpiral        Animation = 8
	AnimationSlalom        Animation = 9
)

var animationNames = []string{
	"stop", "spin", "tap", "slowshake", "metronome",
	"ondulation", "spinjump", "spintoposture", "spiral", "slalom",
}

// AnimationNames returns the valid animation names in wire-value order.
func AnimationNames() []string {
	names := make([]string, len(animationNames))
	copy(names, animationNames)
	return names
}

// ParseAnimation maps an animation name to its wire value.
func ParseAnimation(name string) (Animation, error) {
	for i, n := range animationNames {
		if n == name {
			return Animation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown animation %q (valid: %s)", name, strings.Join(animationNames, ", "))
}

func (a Animation) String() string {
	if int(a) < len(animationNames) {
		return animationNames[a]
	}
	return fmt.Sprintf("animation(%d)", uint32(a))
}
