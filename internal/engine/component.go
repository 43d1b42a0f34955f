package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// CollisionHandler is implemented by components that want the owning
// object's enter/exit callbacks.
type CollisionHandler interface {
	OnCollisionEnter(other *GameObject)
	OnCollisionExit(other *GameObject)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}

// ContactCounter tracks how many objects are touching its owner.
type ContactCounter struct {
	BaseComponent
	Touching int
	Total    int
}

func (c *ContactCounter) OnCollisionEnter(other *GameObject) {
	c.Touching++
	c.Total++
}

func (c *ContactCounter) OnCollisionExit(other *GameObject) {
	if c.Touching > 0 {
		c.Touching--
	}
}
