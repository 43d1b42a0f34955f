package engine

import (
	"errors"

	"rigid3d/internal/physics"
)

// Scene keeps the game objects of one physics engine and routes the engine's
// enter/exit notifications to them.
type Scene struct {
	Name        string
	GameObjects []*GameObject
	Physics     *physics.Engine

	uidMap  map[uint64]*GameObject
	byBody  map[physics.BodyID]*GameObject
	nextUID uint64
}

// NewScene registers the scene as a collision observer of eng.
func NewScene(name string, eng *physics.Engine) *Scene {
	s := &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		Physics:     eng,
		uidMap:      make(map[uint64]*GameObject),
		byBody:      make(map[physics.BodyID]*GameObject),
	}
	eng.AddObserver(s)
	return s
}

func (s *Scene) AddGameObject(g *GameObject) {
	s.nextUID++
	g.UID = s.nextUID
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
	if !g.Body.IsZero() {
		s.byBody[g.Body] = g
	}
}

// RemoveGameObject drops g and unregisters its body.
func (s *Scene) RemoveGameObject(g *GameObject) error {
	if !g.Body.IsZero() {
		if err := s.Physics.RemoveBody(g.Body); err != nil && !errors.Is(err, physics.ErrUnknownBody) {
			return err
		}
		delete(s.byBody, g.Body)
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidMap, g.UID)
	g.Scene = nil
	return nil
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

// FindByBody maps a body handle back to its object.
func (s *Scene) FindByBody(id physics.BodyID) *GameObject {
	return s.byBody[id]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

// Update advances physics, copies body poses back into the objects and then
// runs their components.
func (s *Scene) Update(deltaTime float32) physics.StepReport {
	report := s.Physics.Update(deltaTime)
	for _, g := range s.GameObjects {
		g.SyncTransform(s.Physics)
	}
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
	return report
}

func (s *Scene) CollisionEnter(a, b *physics.Body) {
	objA, objB := s.byBody[a.ID()], s.byBody[b.ID()]
	if objA == nil || objB == nil {
		return
	}
	objA.collisionEnter(objB)
	objB.collisionEnter(objA)
}

func (s *Scene) CollisionExit(a, b *physics.Body) {
	objA, objB := s.byBody[a.ID()], s.byBody[b.ID()]
	if objA == nil || objB == nil {
		return
	}
	objA.collisionExit(objB)
	objB.collisionExit(objA)
}
