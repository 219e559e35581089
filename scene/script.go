package scene

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/rigid2d/dynamics"
	"github.com/milk9111/rigid2d/vmath"
)

// Controller runs a tengo script against one body every step. The script
// defines an update(body, state, dt) function; state is a map that persists
// across steps.
type Controller struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
}

const controllerDispatchScript = `
if __phase == "update" {
	update(__body, __state, __dt)
}
`

// NewController loads and compiles a controller script.
func NewController(scriptPath string) (*Controller, error) {
	scriptBytes, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("scene: load script %s: %w", scriptPath, err)
	}

	src := string(scriptBytes) + "\n" + controllerDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__body", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scene: compile script %s: %w", scriptPath, err)
	}

	return &Controller{
		scriptPath: scriptPath,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Path returns the script file the controller was loaded from.
func (c *Controller) Path() string { return c.scriptPath }

// Update runs the script's update function against the body.
func (c *Controller) Update(body *dynamics.Body, dt float64) error {
	if err := c.compiled.Set("__phase", "update"); err != nil {
		return err
	}
	if err := c.compiled.Set("__body", buildBodyBindings(body)); err != nil {
		return err
	}
	if err := c.compiled.Set("__state", c.stateData); err != nil {
		return err
	}
	if err := c.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return c.compiled.Run()
}

func buildBodyBindings(body *dynamics.Body) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := body.Position()
		return vecObject(p), nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(body.LinearVelocity()), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.SetLinearVelocity(vmath.Vec2{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["apply_force"] = &tengo.UserFunction{Name: "apply_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.ApplyForceToCenter(vmath.Vec2{X: x, Y: y}, true)
		return tengo.TrueValue, nil
	}}

	values["apply_impulse"] = &tengo.UserFunction{Name: "apply_impulse", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.ApplyLinearImpulseToCenter(vmath.Vec2{X: x, Y: y}, true)
		return tengo.TrueValue, nil
	}}

	values["apply_torque"] = &tengo.UserFunction{Name: "apply_torque", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := oneFloat(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.ApplyTorque(t, true)
		return tengo.TrueValue, nil
	}}

	values["get_angle"] = &tengo.UserFunction{Name: "get_angle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: body.Angle()}, nil
	}}

	values["is_awake"] = &tengo.UserFunction{Name: "is_awake", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if body.IsAwake() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["wake"] = &tengo.UserFunction{Name: "wake", Value: func(args ...tengo.Object) (tengo.Object, error) {
		body.SetAwake(true)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(v vmath.Vec2) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X},
		&tengo.Float{Value: v.Y},
	}}
}

func oneFloat(args []tengo.Object) (float64, bool) {
	if len(args) < 1 {
		return 0, false
	}
	return floatValue(args[0])
}

func twoFloats(args []tengo.Object) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	x, okX := floatValue(args[0])
	y, okY := floatValue(args[1])
	return x, y, okX && okY
}

func floatValue(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
